package treatment

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, t *Treatment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Treatment, error)
	List(ctx context.Context, limit, offset int) ([]*Treatment, int, error)
	// ListAll returns every treatment, newest first.
	ListAll(ctx context.Context) ([]*Treatment, error)
	ListByDentist(ctx context.Context, dentistID uuid.UUID) ([]*Treatment, error)
	ListByPatients(ctx context.Context, patientIDs []uuid.UUID) ([]*Treatment, error)
}
