package reporting

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/clinic/clinic/internal/domain/billing"
	"github.com/clinic/clinic/internal/domain/inventory"
	"github.com/clinic/clinic/internal/domain/patient"
	"github.com/clinic/clinic/internal/domain/scheduling"
	"github.com/clinic/clinic/internal/domain/staff"
	"github.com/clinic/clinic/internal/domain/treatment"
	"github.com/clinic/clinic/internal/platform/analytics"
)

// SnapshotSource produces the collections every report is computed from.
type SnapshotSource interface {
	Snapshot(ctx context.Context) (*analytics.Snapshot, error)
}

type lister[T any] interface {
	ListAll(ctx context.Context) ([]T, error)
}

// Store loads a snapshot from the domain repositories. Each repository's
// ListAll satisfies the matching field.
type Store struct {
	Patients     lister[*patient.Patient]
	Appointments lister[*scheduling.Appointment]
	Treatments   lister[*treatment.Treatment]
	Inventory    lister[*inventory.Item]
	Invoices     lister[*billing.Invoice]
	Staff        lister[*staff.Profile]
}

// Snapshot lists every collection concurrently. The first failure cancels
// the rest.
func (s *Store) Snapshot(ctx context.Context) (*analytics.Snapshot, error) {
	var snap analytics.Snapshot
	g, ctx := errgroup.WithContext(ctx)
	g.Go(load(ctx, "patients", s.Patients, &snap.Patients))
	g.Go(load(ctx, "appointments", s.Appointments, &snap.Appointments))
	g.Go(load(ctx, "treatments", s.Treatments, &snap.Treatments))
	g.Go(load(ctx, "inventory", s.Inventory, &snap.Inventory))
	g.Go(load(ctx, "invoices", s.Invoices, &snap.Invoices))
	g.Go(load(ctx, "staff", s.Staff, &snap.Staff))
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &snap, nil
}

func load[T any](ctx context.Context, name string, src lister[T], dst *[]T) func() error {
	return func() error {
		items, err := src.ListAll(ctx)
		if err != nil {
			return fmt.Errorf("load %s: %w", name, err)
		}
		*dst = items
		return nil
	}
}
