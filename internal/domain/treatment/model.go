package treatment

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("treatment not found")
	ErrInvalid  = errors.New("invalid treatment")
)

// Treatment maps to the treatments table. OdontogramData is an opaque JSON
// document owned by the charting UI.
type Treatment struct {
	ID             uuid.UUID `db:"id" json:"id"`
	AppointmentID  uuid.UUID `db:"appointment_id" json:"appointment_id"`
	PatientID      uuid.UUID `db:"patient_id" json:"patient_id"`
	DentistID      uuid.UUID `db:"dentist_id" json:"dentist_id"`
	Description    string    `db:"description" json:"description"`
	Notes          *string   `db:"notes" json:"notes,omitempty"`
	Cost           float64   `db:"cost" json:"cost"`
	ToothReference *string   `db:"tooth_reference" json:"tooth_reference,omitempty"`
	OdontogramData *string   `db:"odontogram_data" json:"odontogram_data,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}
