package inventory

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, it *Item) error
	GetByID(ctx context.Context, id uuid.UUID) (*Item, error)
	Update(ctx context.Context, it *Item) error
	Delete(ctx context.Context, id uuid.UUID) error
	// Search matches name or supplier, case-insensitively. An empty term
	// lists everything.
	Search(ctx context.Context, term string, limit, offset int) ([]*Item, int, error)
	// ListAll returns every item ordered by name.
	ListAll(ctx context.Context) ([]*Item, error)
}
