package audit

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinic/clinic/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

// Create writes on the pool, outside any transaction bound to ctx, so a failed
// audit insert cannot abort the caller's transaction.
func (r *repoPG) Create(ctx context.Context, e *Entry) error {
	e.ID = uuid.New()
	return r.pool.QueryRow(ctx, `
		INSERT INTO audit_logs (id, user_id, action, resource, resource_id, details)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING timestamp`,
		e.ID, e.UserID, e.Action, e.Resource, e.ResourceID, e.Details).Scan(&e.Timestamp)
}

func (r *repoPG) List(ctx context.Context, userID string, limit, offset int) ([]*Entry, int, error) {
	conn := db.Conn(ctx, r.pool)
	var total int
	if err := conn.QueryRow(ctx, `
		SELECT COUNT(*) FROM audit_logs WHERE $1 = '' OR user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := conn.Query(ctx, `
		SELECT id, user_id, action, resource, resource_id, details, timestamp
		FROM audit_logs WHERE $1 = '' OR user_id = $1
		ORDER BY timestamp DESC LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Action, &e.Resource, &e.ResourceID, &e.Details, &e.Timestamp); err != nil {
			return nil, 0, err
		}
		items = append(items, &e)
	}
	return items, total, rows.Err()
}
