package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinic/clinic/internal/domain/audit"
	"github.com/clinic/clinic/internal/platform/auth"
	"github.com/clinic/clinic/internal/platform/db"
)

// Decision outcomes reported to a DecisionRecorder.
const (
	OutcomeAdmitted      = "admitted"
	OutcomeRejected      = "rejected"
	OutcomeStoreConflict = "store_conflict"
)

type DecisionRecorder interface {
	RecordDecision(outcome string)
}

type nopDecisions struct{}

func (nopDecisions) RecordDecision(string) {}

type Service struct {
	repo      Repository
	audit     audit.Recorder
	decisions DecisionRecorder
}

func NewService(repo Repository, rec audit.Recorder, decisions DecisionRecorder) *Service {
	if decisions == nil {
		decisions = nopDecisions{}
	}
	return &Service{repo: repo, audit: rec, decisions: decisions}
}

// normalize validates a and rewrites Time to HH:MM so equal slots compare
// equal regardless of whether seconds were supplied.
func normalize(a *Appointment) error {
	if a.PatientID == uuid.Nil {
		return fmt.Errorf("%w: patient_id is required", ErrInvalid)
	}
	if a.DentistID == uuid.Nil {
		return fmt.Errorf("%w: dentist_id is required", ErrInvalid)
	}
	if _, err := time.Parse("2006-01-02", a.Date); err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalid)
	}
	t, err := time.Parse("15:04", a.Time)
	if err != nil {
		if t, err = time.Parse("15:04:05", a.Time); err != nil {
			return fmt.Errorf("%w: time must be HH:MM", ErrInvalid)
		}
	}
	a.Time = t.Format("15:04")
	if a.Status == "" {
		a.Status = StatusScheduled
	}
	if !a.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalid, a.Status)
	}
	return nil
}

// admit runs the slot rule against the current bookings of a's slot.
func (s *Service) admit(ctx context.Context, a *Appointment) error {
	existing, err := s.repo.ListBySlot(ctx, a.DentistID, a.Date, a.Time)
	if err != nil {
		return fmt.Errorf("load slot: %w", err)
	}
	d := TrySchedule(a, existing)
	if !d.Admitted {
		s.decisions.RecordDecision(OutcomeRejected)
		return d.Err()
	}
	return nil
}

// storeConflict converts a slot unique violation raised by a concurrent
// writer into a *ConflictError.
func (s *Service) storeConflict(ctx context.Context, a *Appointment, err error) error {
	if !db.IsUniqueViolation(err, SlotConstraint) {
		return err
	}
	s.decisions.RecordDecision(OutcomeStoreConflict)
	c := Conflict{DentistID: a.DentistID, Date: a.Date, Time: a.Time}
	if existing, lerr := s.repo.ListBySlot(ctx, a.DentistID, a.Date, a.Time); lerr == nil {
		if d := TrySchedule(a, existing); d.Conflict != nil {
			c = *d.Conflict
		}
	}
	return &ConflictError{Conflict: c}
}

func (s *Service) CreateAppointment(ctx context.Context, actor auth.Actor, a *Appointment) error {
	if err := normalize(a); err != nil {
		return err
	}
	a.ID = uuid.Nil
	if err := s.admit(ctx, a); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return s.storeConflict(ctx, a, err)
	}
	s.decisions.RecordDecision(OutcomeAdmitted)
	s.audit.Record(ctx, actor, audit.ActionCreate, "Appointment", a.ID.String(),
		fmt.Sprintf("Scheduled %s %s in room %s", a.Date, a.Time, a.RoomNumber))
	return nil
}

// UpdateAppointment applies patch and re-checks the resulting slot against
// every other appointment before persisting.
func (s *Service) UpdateAppointment(ctx context.Context, actor auth.Actor, id uuid.UUID, patch Patch) (*Appointment, error) {
	stored, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	updated := patch.Apply(*stored)
	updated.ID = stored.ID
	if err := normalize(&updated); err != nil {
		return nil, err
	}
	if err := s.admit(ctx, &updated); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, s.storeConflict(ctx, &updated, err)
	}
	s.decisions.RecordDecision(OutcomeAdmitted)
	s.audit.Record(ctx, actor, audit.ActionUpdate, "Appointment", id.String(),
		fmt.Sprintf("Updated to %s %s (%s)", updated.Date, updated.Time, updated.Status))
	return &updated, nil
}

func (s *Service) CancelAppointment(ctx context.Context, actor auth.Actor, id uuid.UUID) (*Appointment, error) {
	status := StatusCancelled
	return s.UpdateAppointment(ctx, actor, id, Patch{Status: &status})
}

func (s *Service) DeleteAppointment(ctx context.Context, actor auth.Actor, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, actor, audit.ActionDelete, "Appointment", id.String(), "Deleted appointment")
	return nil
}

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListAppointments(ctx context.Context, f Filter, limit, offset int) ([]*Appointment, int, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, 0, fmt.Errorf("%w: unknown status %q", ErrInvalid, f.Status)
	}
	return s.repo.List(ctx, f, limit, offset)
}

// IsConflict reports whether err is a slot conflict and returns it.
func IsConflict(err error) (*ConflictError, bool) {
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
