package treatment

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinic/clinic/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const treatmentCols = `id, appointment_id, patient_id, dentist_id, description, notes, cost,
	tooth_reference, odontogram_data, created_at, updated_at`

func scanTreatment(row pgx.Row) (*Treatment, error) {
	var t Treatment
	err := row.Scan(&t.ID, &t.AppointmentID, &t.PatientID, &t.DentistID, &t.Description, &t.Notes,
		&t.Cost, &t.ToothReference, &t.OdontogramData, &t.CreatedAt, &t.UpdatedAt)
	if db.IsNoRows(err) {
		return nil, ErrNotFound
	}
	return &t, err
}

func (r *repoPG) query(ctx context.Context, sql string, args ...interface{}) ([]*Treatment, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Treatment
	for rows.Next() {
		t, err := scanTreatment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

func (r *repoPG) Create(ctx context.Context, t *Treatment) error {
	t.ID = uuid.New()
	return db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO treatments (id, appointment_id, patient_id, dentist_id, description, notes,
			cost, tooth_reference, odontogram_data)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING created_at, updated_at`,
		t.ID, t.AppointmentID, t.PatientID, t.DentistID, t.Description, t.Notes,
		t.Cost, t.ToothReference, t.OdontogramData,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Treatment, error) {
	return scanTreatment(db.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+treatmentCols+` FROM treatments WHERE id = $1`, id))
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Treatment, int, error) {
	var total int
	if err := db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM treatments`).Scan(&total); err != nil {
		return nil, 0, err
	}
	items, err := r.query(ctx, `SELECT `+treatmentCols+` FROM treatments
		ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	return items, total, err
}

func (r *repoPG) ListAll(ctx context.Context) ([]*Treatment, error) {
	return r.query(ctx, `SELECT `+treatmentCols+` FROM treatments ORDER BY created_at DESC`)
}

func (r *repoPG) ListByDentist(ctx context.Context, dentistID uuid.UUID) ([]*Treatment, error) {
	return r.query(ctx, `SELECT `+treatmentCols+` FROM treatments
		WHERE dentist_id = $1 ORDER BY created_at DESC`, dentistID)
}

func (r *repoPG) ListByPatients(ctx context.Context, patientIDs []uuid.UUID) ([]*Treatment, error) {
	if len(patientIDs) == 0 {
		return nil, nil
	}
	return r.query(ctx, `SELECT `+treatmentCols+` FROM treatments
		WHERE patient_id = ANY($1) ORDER BY created_at DESC`, patientIDs)
}
