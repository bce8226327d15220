package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinic/clinic/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const itemCols = `id, name, quantity, unit, expiry_date, low_stock_threshold, cost, supplier,
	created_at, updated_at`

func scanItem(row pgx.Row) (*Item, error) {
	var it Item
	err := row.Scan(&it.ID, &it.Name, &it.Quantity, &it.Unit, &it.ExpiryDate, &it.LowStockThreshold,
		&it.Cost, &it.Supplier, &it.CreatedAt, &it.UpdatedAt)
	if db.IsNoRows(err) {
		return nil, ErrNotFound
	}
	return &it, err
}

func collect(rows pgx.Rows) ([]*Item, error) {
	defer rows.Close()
	var items []*Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *repoPG) Create(ctx context.Context, it *Item) error {
	it.ID = uuid.New()
	return db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO inventory (id, name, quantity, unit, expiry_date, low_stock_threshold, cost, supplier)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at, updated_at`,
		it.ID, it.Name, it.Quantity, it.Unit, it.ExpiryDate, it.LowStockThreshold, it.Cost, it.Supplier,
	).Scan(&it.CreatedAt, &it.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Item, error) {
	return scanItem(db.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+itemCols+` FROM inventory WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, it *Item) error {
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE inventory SET name=$2, quantity=$3, unit=$4, expiry_date=$5, low_stock_threshold=$6,
			cost=$7, supplier=$8, updated_at=NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		it.ID, it.Name, it.Quantity, it.Unit, it.ExpiryDate, it.LowStockThreshold, it.Cost, it.Supplier,
	).Scan(&it.CreatedAt, &it.UpdatedAt)
	if db.IsNoRows(err) {
		return ErrNotFound
	}
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM inventory WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Search(ctx context.Context, term string, limit, offset int) ([]*Item, int, error) {
	const where = ` WHERE $1 = '' OR name ILIKE '%' || $1 || '%' OR supplier ILIKE '%' || $1 || '%'`
	conn := db.Conn(ctx, r.pool)

	var total int
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM inventory`+where, term).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := conn.Query(ctx, `SELECT `+itemCols+` FROM inventory`+where+
		` ORDER BY name LIMIT $2 OFFSET $3`, term, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	items, err := collect(rows)
	return items, total, err
}

func (r *repoPG) ListAll(ctx context.Context) ([]*Item, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `SELECT `+itemCols+` FROM inventory ORDER BY name`)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}
