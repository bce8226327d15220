package staff

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	Update(ctx context.Context, p *Profile) error
	// ListAll returns every profile ordered by name.
	ListAll(ctx context.Context) ([]*Profile, error)
}
