package inventory

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clinic/clinic/internal/domain/audit"
	"github.com/clinic/clinic/internal/platform/auth"
)

type Service struct {
	repo   Repository
	audit  audit.Recorder
	window int
	now    func() time.Time
}

// NewService builds the inventory service. window is the expiring-soon
// horizon in days; non-positive values use DefaultExpiryWindow.
func NewService(repo Repository, rec audit.Recorder, window int) *Service {
	if window <= 0 {
		window = DefaultExpiryWindow
	}
	return &Service{repo: repo, audit: rec, window: window, now: time.Now}
}

func validate(it *Item) error {
	it.Name = strings.TrimSpace(it.Name)
	if it.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if it.Quantity < 0 {
		return fmt.Errorf("%w: quantity must not be negative", ErrInvalid)
	}
	if it.LowStockThreshold < 0 {
		return fmt.Errorf("%w: low_stock_threshold must not be negative", ErrInvalid)
	}
	if it.Cost < 0 || math.IsNaN(it.Cost) || math.IsInf(it.Cost, 0) {
		return fmt.Errorf("%w: cost must be a non-negative amount", ErrInvalid)
	}
	return nil
}

func (s *Service) CreateItem(ctx context.Context, actor auth.Actor, it *Item) error {
	if err := validate(it); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, it); err != nil {
		return fmt.Errorf("create inventory item: %w", err)
	}
	s.audit.Record(ctx, actor, audit.ActionCreate, "Inventory", it.ID.String(),
		fmt.Sprintf("Added %d %s of %s", it.Quantity, it.Unit, it.Name))
	return nil
}

func (s *Service) GetItem(ctx context.Context, id uuid.UUID) (*Item, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateItem(ctx context.Context, actor auth.Actor, it *Item) error {
	if err := validate(it); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, it); err != nil {
		return err
	}
	s.audit.Record(ctx, actor, audit.ActionUpdate, "Inventory", it.ID.String(),
		fmt.Sprintf("%s now at %d %s", it.Name, it.Quantity, it.Unit))
	return nil
}

func (s *Service) DeleteItem(ctx context.Context, actor auth.Actor, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, actor, audit.ActionDelete, "Inventory", id.String(), "Removed inventory item")
	return nil
}

func (s *Service) SearchItems(ctx context.Context, term string, limit, offset int) ([]*Item, int, error) {
	return s.repo.Search(ctx, strings.TrimSpace(term), limit, offset)
}

// Alerts returns the low-stock and expiring-soon items as of now.
func (s *Service) Alerts(ctx context.Context) (Alerts, error) {
	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return Alerts{}, err
	}
	return BuildAlerts(items, s.now(), s.window), nil
}
