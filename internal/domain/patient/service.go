package patient

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clinic/clinic/internal/domain/audit"
	"github.com/clinic/clinic/internal/platform/auth"
)

type Service struct {
	repo  Repository
	audit audit.Recorder
}

func NewService(repo Repository, rec audit.Recorder) *Service {
	return &Service{repo: repo, audit: rec}
}

func validate(p *Patient) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if !p.Gender.Valid() {
		return fmt.Errorf("%w: gender must be male, female or other", ErrInvalid)
	}
	if _, err := time.Parse("2006-01-02", p.DateOfBirth); err != nil {
		return fmt.Errorf("%w: date_of_birth must be YYYY-MM-DD", ErrInvalid)
	}
	return nil
}

func (s *Service) CreatePatient(ctx context.Context, actor auth.Actor, p *Patient) error {
	if err := validate(p); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return fmt.Errorf("create patient: %w", err)
	}
	s.audit.Record(ctx, actor, audit.ActionCreate, "Patient", p.ID.String(), "Created patient "+p.Name)
	return nil
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdatePatient(ctx context.Context, actor auth.Actor, p *Patient) error {
	if err := validate(p); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return err
	}
	s.audit.Record(ctx, actor, audit.ActionUpdate, "Patient", p.ID.String(), "Updated patient "+p.Name)
	return nil
}

func (s *Service) DeletePatient(ctx context.Context, actor auth.Actor, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, actor, audit.ActionDelete, "Patient", id.String(), "Deleted patient")
	return nil
}

func (s *Service) ListPatients(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) SearchPatients(ctx context.Context, term string, limit, offset int) ([]*Patient, int, error) {
	return s.repo.Search(ctx, strings.TrimSpace(term), limit, offset)
}
