package patient

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinic/clinic/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const patientCols = `id, name, gender, date_of_birth, phone, email, address,
	emergency_contact_name, emergency_contact_phone, emergency_contact_relationship,
	medical_history, dental_history, referring_doctor, insurance, nurse_id,
	created_at, updated_at`

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.Name, &p.Gender, &p.DateOfBirth, &p.Phone, &p.Email, &p.Address,
		&p.EmergencyContact.Name, &p.EmergencyContact.Phone, &p.EmergencyContact.Relationship,
		&p.MedicalHistory, &p.DentalHistory, &p.ReferringDoctor, &p.Insurance, &p.NurseID,
		&p.CreatedAt, &p.UpdatedAt)
	if db.IsNoRows(err) {
		return nil, ErrNotFound
	}
	return &p, err
}

func collect(rows pgx.Rows) ([]*Patient, error) {
	defer rows.Close()
	var items []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	return db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO patients (id, name, gender, date_of_birth, phone, email, address,
			emergency_contact_name, emergency_contact_phone, emergency_contact_relationship,
			medical_history, dental_history, referring_doctor, insurance, nurse_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		RETURNING created_at, updated_at`,
		p.ID, p.Name, p.Gender, p.DateOfBirth, p.Phone, p.Email, p.Address,
		p.EmergencyContact.Name, p.EmergencyContact.Phone, p.EmergencyContact.Relationship,
		p.MedicalHistory, p.DentalHistory, p.ReferringDoctor, p.Insurance, p.NurseID,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return scanPatient(db.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+patientCols+` FROM patients WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, p *Patient) error {
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE patients SET name=$2, gender=$3, date_of_birth=$4, phone=$5, email=$6, address=$7,
			emergency_contact_name=$8, emergency_contact_phone=$9, emergency_contact_relationship=$10,
			medical_history=$11, dental_history=$12, referring_doctor=$13, insurance=$14, nurse_id=$15,
			updated_at=NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		p.ID, p.Name, p.Gender, p.DateOfBirth, p.Phone, p.Email, p.Address,
		p.EmergencyContact.Name, p.EmergencyContact.Phone, p.EmergencyContact.Relationship,
		p.MedicalHistory, p.DentalHistory, p.ReferringDoctor, p.Insurance, p.NurseID,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if db.IsNoRows(err) {
		return ErrNotFound
	}
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return r.Search(ctx, "", limit, offset)
}

func (r *repoPG) ListAll(ctx context.Context) ([]*Patient, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx,
		`SELECT `+patientCols+` FROM patients ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func (r *repoPG) Search(ctx context.Context, term string, limit, offset int) ([]*Patient, int, error) {
	const where = ` WHERE $1 = '' OR name ILIKE '%' || $1 || '%' OR phone ILIKE '%' || $1 || '%'`
	conn := db.Conn(ctx, r.pool)

	var total int
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM patients`+where, term).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := conn.Query(ctx, `SELECT `+patientCols+` FROM patients`+where+
		` ORDER BY created_at DESC LIMIT $2 OFFSET $3`, term, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	items, err := collect(rows)
	return items, total, err
}
