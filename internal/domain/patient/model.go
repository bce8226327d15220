package patient

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("patient not found")
	ErrInvalid  = errors.New("invalid patient")
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

type EmergencyContact struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Relationship string `json:"relationship"`
}

// Patient maps to the patients table. DateOfBirth is kept as the stored
// YYYY-MM-DD text.
type Patient struct {
	ID               uuid.UUID        `db:"id" json:"id"`
	Name             string           `db:"name" json:"name"`
	Gender           Gender           `db:"gender" json:"gender"`
	DateOfBirth      string           `db:"date_of_birth" json:"date_of_birth"`
	Phone            string           `db:"phone" json:"phone"`
	Email            *string          `db:"email" json:"email,omitempty"`
	Address          *string          `db:"address" json:"address,omitempty"`
	EmergencyContact EmergencyContact `json:"emergency_contact"`
	MedicalHistory   *string          `db:"medical_history" json:"medical_history,omitempty"`
	DentalHistory    *string          `db:"dental_history" json:"dental_history,omitempty"`
	ReferringDoctor  *string          `db:"referring_doctor" json:"referring_doctor,omitempty"`
	Insurance        *string          `db:"insurance" json:"insurance,omitempty"`
	NurseID          *uuid.UUID       `db:"nurse_id" json:"nurse_id,omitempty"`
	CreatedAt        time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time        `db:"updated_at" json:"updated_at"`
}
