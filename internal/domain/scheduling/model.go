package scheduling

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("appointment not found")
	ErrInvalid  = errors.New("invalid appointment")
)

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Appointment maps to the appointments table. Date (YYYY-MM-DD) and Time
// (HH:MM) are stored as text and compared verbatim.
type Appointment struct {
	ID          uuid.UUID `db:"id" json:"id"`
	PatientID   uuid.UUID `db:"patient_id" json:"patient_id"`
	DentistID   uuid.UUID `db:"dentist_id" json:"dentist_id"`
	Date        string    `db:"date" json:"date"`
	Time        string    `db:"time" json:"time"`
	RoomNumber  string    `db:"room_number" json:"room_number"`
	Status      Status    `db:"status" json:"status"`
	IsEmergency bool      `db:"is_emergency" json:"is_emergency"`
	Notes       *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Patch carries the fields of an appointment update; nil fields are kept.
type Patch struct {
	PatientID   *uuid.UUID `json:"patient_id"`
	DentistID   *uuid.UUID `json:"dentist_id"`
	Date        *string    `json:"date"`
	Time        *string    `json:"time"`
	RoomNumber  *string    `json:"room_number"`
	Status      *Status    `json:"status"`
	IsEmergency *bool      `json:"is_emergency"`
	Notes       *string    `json:"notes"`
}

// Apply returns a copy of a with the patch applied.
func (p Patch) Apply(a Appointment) Appointment {
	if p.PatientID != nil {
		a.PatientID = *p.PatientID
	}
	if p.DentistID != nil {
		a.DentistID = *p.DentistID
	}
	if p.Date != nil {
		a.Date = *p.Date
	}
	if p.Time != nil {
		a.Time = *p.Time
	}
	if p.RoomNumber != nil {
		a.RoomNumber = *p.RoomNumber
	}
	if p.Status != nil {
		a.Status = *p.Status
	}
	if p.IsEmergency != nil {
		a.IsEmergency = *p.IsEmergency
	}
	if p.Notes != nil {
		a.Notes = p.Notes
	}
	return a
}

// Filter narrows appointment listings. Zero values match everything.
type Filter struct {
	DentistID uuid.UUID
	PatientID uuid.UUID
	Date      string
	Status    Status
}
