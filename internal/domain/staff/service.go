package staff

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/clinic/clinic/internal/domain/audit"
	"github.com/clinic/clinic/internal/domain/patient"
	"github.com/clinic/clinic/internal/domain/treatment"
	"github.com/clinic/clinic/internal/platform/auth"
)

// PatientLister is satisfied by patient.Repository.
type PatientLister interface {
	ListAll(ctx context.Context) ([]*patient.Patient, error)
}

// TreatmentLister is satisfied by treatment.Repository.
type TreatmentLister interface {
	ListByDentist(ctx context.Context, dentistID uuid.UUID) ([]*treatment.Treatment, error)
	ListByPatients(ctx context.Context, patientIDs []uuid.UUID) ([]*treatment.Treatment, error)
}

type Service struct {
	repo       Repository
	patients   PatientLister
	treatments TreatmentLister
	audit      audit.Recorder
}

func NewService(repo Repository, patients PatientLister, treatments TreatmentLister, rec audit.Recorder) *Service {
	return &Service{repo: repo, patients: patients, treatments: treatments, audit: rec}
}

func (s *Service) ListStaff(ctx context.Context) ([]*Profile, error) {
	return s.repo.ListAll(ctx)
}

func (s *Service) GetStaff(ctx context.Context, id uuid.UUID) (*Profile, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateProfile edits name, email and avatar. Staff may edit their own
// profile; managers may edit anyone's. The stored role is never changed here.
func (s *Service) UpdateProfile(ctx context.Context, actor auth.Actor, p *Profile) error {
	if actor.ID != p.ID.String() && !actor.Can(auth.CapManageStaff) {
		return ErrForbidden
	}
	p.Name = strings.TrimSpace(p.Name)
	p.Email = strings.TrimSpace(p.Email)
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if !strings.Contains(p.Email, "@") {
		return fmt.Errorf("%w: email is invalid", ErrInvalid)
	}
	existing, err := s.repo.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	p.Role = existing.Role
	if err := s.repo.Update(ctx, p); err != nil {
		return err
	}
	s.audit.Record(ctx, actor, audit.ActionUpdate, "Profile", p.ID.String(), "Updated profile "+p.Name)
	return nil
}

// UpdateRole reassigns a staff member's role. Only managers may do this.
func (s *Service) UpdateRole(ctx context.Context, actor auth.Actor, id uuid.UUID, role auth.Role) (*Profile, error) {
	if !actor.Can(auth.CapManageStaff) {
		return nil, ErrForbidden
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalid, role)
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := p.Role
	p.Role = role
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actor, audit.ActionUpdate, "Profile", p.ID.String(),
		fmt.Sprintf("Changed role of %s from %s to %s", p.Name, previous, role))
	return p, nil
}

// CasesForStaff lists the treatments a clinician is responsible for: a
// dentist's own treatments, or every treatment of the patients assigned to a
// nurse. Other roles have no cases. Only the staff member themself or a
// manager may read the list.
func (s *Service) CasesForStaff(ctx context.Context, actor auth.Actor, staffID uuid.UUID) ([]Case, error) {
	if actor.ID != staffID.String() && !actor.Can(auth.CapManageStaff) {
		return nil, ErrForbidden
	}
	p, err := s.repo.GetByID(ctx, staffID)
	if err != nil {
		return nil, err
	}

	patients, err := s.patients.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	names := make(map[uuid.UUID]string, len(patients))
	for _, pt := range patients {
		names[pt.ID] = pt.Name
	}

	var treatments []*treatment.Treatment
	switch p.Role {
	case auth.RoleDentist:
		treatments, err = s.treatments.ListByDentist(ctx, staffID)
	case auth.RoleNurse:
		var assigned []uuid.UUID
		for _, pt := range patients {
			if pt.NurseID != nil && *pt.NurseID == staffID {
				assigned = append(assigned, pt.ID)
			}
		}
		treatments, err = s.treatments.ListByPatients(ctx, assigned)
	default:
		return []Case{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list treatments: %w", err)
	}

	cases := make([]Case, 0, len(treatments))
	for _, t := range treatments {
		name, ok := names[t.PatientID]
		if !ok || name == "" {
			name = t.PatientID.String()
		}
		c := Case{PatientName: name, Date: t.CreatedAt, Treatment: t.Description}
		if t.Notes != nil {
			c.Notes = *t.Notes
		}
		cases = append(cases, c)
	}
	return cases, nil
}
