package scheduling

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinic/clinic/internal/platform/db"
)

// SlotConstraint is the partial unique index guarding scheduled slots.
const SlotConstraint = "appointments_scheduled_slot_key"

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const apptCols = `id, patient_id, dentist_id, date, time, room_number, status,
	is_emergency, notes, created_at, updated_at`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.PatientID, &a.DentistID, &a.Date, &a.Time, &a.RoomNumber, &a.Status,
		&a.IsEmergency, &a.Notes, &a.CreatedAt, &a.UpdatedAt)
	if db.IsNoRows(err) {
		return nil, ErrNotFound
	}
	return &a, err
}

func collect(rows pgx.Rows) ([]*Appointment, error) {
	defer rows.Close()
	var items []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	return db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO appointments (id, patient_id, dentist_id, date, time, room_number,
			status, is_emergency, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING created_at, updated_at`,
		a.ID, a.PatientID, a.DentistID, a.Date, a.Time, a.RoomNumber,
		a.Status, a.IsEmergency, a.Notes,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return scanAppointment(db.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+apptCols+` FROM appointments WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, a *Appointment) error {
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE appointments SET patient_id=$2, dentist_id=$3, date=$4, time=$5, room_number=$6,
			status=$7, is_emergency=$8, notes=$9, updated_at=NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		a.ID, a.PatientID, a.DentistID, a.Date, a.Time, a.RoomNumber,
		a.Status, a.IsEmergency, a.Notes,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if db.IsNoRows(err) {
		return ErrNotFound
	}
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, f Filter, limit, offset int) ([]*Appointment, int, error) {
	where := ` WHERE 1=1`
	var args []interface{}
	idx := 1

	if f.DentistID != uuid.Nil {
		where += fmt.Sprintf(` AND dentist_id = $%d`, idx)
		args = append(args, f.DentistID)
		idx++
	}
	if f.PatientID != uuid.Nil {
		where += fmt.Sprintf(` AND patient_id = $%d`, idx)
		args = append(args, f.PatientID)
		idx++
	}
	if f.Date != "" {
		where += fmt.Sprintf(` AND date = $%d`, idx)
		args = append(args, f.Date)
		idx++
	}
	if f.Status != "" {
		where += fmt.Sprintf(` AND status = $%d`, idx)
		args = append(args, f.Status)
		idx++
	}

	conn := db.Conn(ctx, r.pool)
	var total int
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM appointments`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + apptCols + ` FROM appointments` + where +
		fmt.Sprintf(` ORDER BY date DESC, time DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)
	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	items, err := collect(rows)
	return items, total, err
}

func (r *repoPG) ListAll(ctx context.Context) ([]*Appointment, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx,
		`SELECT `+apptCols+` FROM appointments ORDER BY date, time`)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func (r *repoPG) ListBySlot(ctx context.Context, dentistID uuid.UUID, date, t string) ([]*Appointment, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx,
		`SELECT `+apptCols+` FROM appointments WHERE dentist_id = $1 AND date = $2 AND time = $3`,
		dentistID, date, t)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}
