package billing

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, inv *Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	Update(ctx context.Context, inv *Invoice) error
	List(ctx context.Context, status PaymentStatus, limit, offset int) ([]*Invoice, int, error)
	// ListAll returns every invoice, most recently issued first.
	ListAll(ctx context.Context) ([]*Invoice, error)
}
