package scheduling

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrSlotTaken is matched by every *ConflictError.
var ErrSlotTaken = errors.New("dentist already has a scheduled appointment in this slot")

// Conflict identifies the booking that holds the requested slot.
type Conflict struct {
	AppointmentID uuid.UUID `json:"conflicting_appointment_id"`
	DentistID     uuid.UUID `json:"dentist_id"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`
}

type ConflictError struct {
	Conflict Conflict
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("dentist %s is already booked on %s at %s (appointment %s)",
		e.Conflict.DentistID, e.Conflict.Date, e.Conflict.Time, e.Conflict.AppointmentID)
}

func (e *ConflictError) Unwrap() error { return ErrSlotTaken }

// Decision is the outcome of TrySchedule. Conflict is set only when the
// proposal was rejected.
type Decision struct {
	Admitted bool
	Conflict *Conflict
}

// Err returns nil for an admitted proposal and a *ConflictError otherwise.
func (d Decision) Err() error {
	if d.Admitted {
		return nil
	}
	return &ConflictError{Conflict: *d.Conflict}
}

// TrySchedule decides whether proposed may be persisted next to existing.
// A slot is the exact (dentist, date, time) triple; only scheduled
// appointments hold one. Entries sharing the proposal's id are skipped so an
// edit never collides with its own stored version, and a proposal that is not
// itself scheduled never conflicts.
func TrySchedule(proposed *Appointment, existing []*Appointment) Decision {
	if proposed.Status != StatusScheduled {
		return Decision{Admitted: true}
	}
	for _, e := range existing {
		if e == nil || e.Status != StatusScheduled {
			continue
		}
		if proposed.ID != uuid.Nil && e.ID == proposed.ID {
			continue
		}
		if e.DentistID == proposed.DentistID && e.Date == proposed.Date && e.Time == proposed.Time {
			return Decision{Conflict: &Conflict{
				AppointmentID: e.ID,
				DentistID:     e.DentistID,
				Date:          e.Date,
				Time:          e.Time,
			}}
		}
	}
	return Decision{Admitted: true}
}
