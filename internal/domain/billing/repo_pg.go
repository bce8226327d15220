package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinic/clinic/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const invoiceCols = `id, patient_id, appointment_id, total_amount, payment_method, payment_status,
	date_issued, date_paid, items, created_at, updated_at`

func scanInvoice(row pgx.Row) (*Invoice, error) {
	var inv Invoice
	err := row.Scan(&inv.ID, &inv.PatientID, &inv.AppointmentID, &inv.TotalAmount,
		&inv.PaymentMethod, &inv.PaymentStatus, &inv.DateIssued, &inv.DatePaid, &inv.Items,
		&inv.CreatedAt, &inv.UpdatedAt)
	if db.IsNoRows(err) {
		return nil, ErrNotFound
	}
	if inv.Items == nil {
		inv.Items = []LineItem{}
	}
	return &inv, err
}

func collect(rows pgx.Rows) ([]*Invoice, error) {
	defer rows.Close()
	var items []*Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, inv)
	}
	return items, rows.Err()
}

func (r *repoPG) Create(ctx context.Context, inv *Invoice) error {
	inv.ID = uuid.New()
	return db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO invoices (id, patient_id, appointment_id, total_amount, payment_method,
			payment_status, date_issued, date_paid, items)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING created_at, updated_at`,
		inv.ID, inv.PatientID, inv.AppointmentID, inv.TotalAmount, inv.PaymentMethod,
		inv.PaymentStatus, inv.DateIssued, inv.DatePaid, inv.Items,
	).Scan(&inv.CreatedAt, &inv.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	return scanInvoice(db.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+invoiceCols+` FROM invoices WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, inv *Invoice) error {
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE invoices SET patient_id=$2, appointment_id=$3, total_amount=$4, payment_method=$5,
			payment_status=$6, date_issued=$7, date_paid=$8, items=$9, updated_at=NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		inv.ID, inv.PatientID, inv.AppointmentID, inv.TotalAmount, inv.PaymentMethod,
		inv.PaymentStatus, inv.DateIssued, inv.DatePaid, inv.Items,
	).Scan(&inv.CreatedAt, &inv.UpdatedAt)
	if db.IsNoRows(err) {
		return ErrNotFound
	}
	return err
}

func (r *repoPG) List(ctx context.Context, status PaymentStatus, limit, offset int) ([]*Invoice, int, error) {
	const where = ` WHERE $1 = '' OR payment_status = $1`
	conn := db.Conn(ctx, r.pool)

	var total int
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM invoices`+where, string(status)).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := conn.Query(ctx, `SELECT `+invoiceCols+` FROM invoices`+where+
		` ORDER BY date_issued DESC LIMIT $2 OFFSET $3`, string(status), limit, offset)
	if err != nil {
		return nil, 0, err
	}
	items, err := collect(rows)
	return items, total, err
}

func (r *repoPG) ListAll(ctx context.Context) ([]*Invoice, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx,
		`SELECT `+invoiceCols+` FROM invoices ORDER BY date_issued DESC`)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}
