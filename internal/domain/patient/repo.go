package patient

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Patient, int, error)
	// ListAll returns every patient, newest first.
	ListAll(ctx context.Context) ([]*Patient, error)
	// Search matches name or phone, case-insensitively.
	Search(ctx context.Context, term string, limit, offset int) ([]*Patient, int, error)
}
