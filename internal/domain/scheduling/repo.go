package scheduling

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, f Filter, limit, offset int) ([]*Appointment, int, error)
	// ListAll returns every appointment ordered by date then time.
	ListAll(ctx context.Context) ([]*Appointment, error)
	// ListBySlot returns the appointments of any status booked for the
	// dentist at date and time.
	ListBySlot(ctx context.Context, dentistID uuid.UUID, date, time string) ([]*Appointment, error)
}
