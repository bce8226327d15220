package treatment

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/clinic/clinic/internal/domain/audit"
	"github.com/clinic/clinic/internal/domain/billing"
	"github.com/clinic/clinic/internal/platform/auth"
	"github.com/clinic/clinic/internal/platform/db"
)

// InvoiceCreator issues the invoice that accompanies every treatment.
type InvoiceCreator interface {
	CreateInvoice(ctx context.Context, actor auth.Actor, inv *billing.Invoice) error
}

type Service struct {
	repo     Repository
	invoices InvoiceCreator
	tx       db.TxRunner
	audit    audit.Recorder
}

func NewService(repo Repository, invoices InvoiceCreator, tx db.TxRunner, rec audit.Recorder) *Service {
	return &Service{repo: repo, invoices: invoices, tx: tx, audit: rec}
}

func validate(t *Treatment) error {
	if t.AppointmentID == uuid.Nil || t.PatientID == uuid.Nil || t.DentistID == uuid.Nil {
		return fmt.Errorf("%w: appointment_id, patient_id and dentist_id are required", ErrInvalid)
	}
	t.Description = strings.TrimSpace(t.Description)
	if t.Description == "" {
		return fmt.Errorf("%w: description is required", ErrInvalid)
	}
	if t.Cost < 0 || math.IsNaN(t.Cost) || math.IsInf(t.Cost, 0) {
		return fmt.Errorf("%w: cost must be a non-negative amount", ErrInvalid)
	}
	return nil
}

// InvoiceFor builds the pending cash invoice billed for t.
func InvoiceFor(t *Treatment) *billing.Invoice {
	appointmentID := t.AppointmentID
	return &billing.Invoice{
		PatientID:     t.PatientID,
		AppointmentID: &appointmentID,
		PaymentMethod: billing.MethodCash,
		PaymentStatus: billing.StatusPending,
		Items: []billing.LineItem{{
			ID:          t.ID.String(),
			Description: t.Description,
			Quantity:    1,
			UnitPrice:   t.Cost,
		}},
	}
}

// CreateTreatment stores t and its pending invoice atomically.
func (s *Service) CreateTreatment(ctx context.Context, actor auth.Actor, t *Treatment) (*billing.Invoice, error) {
	if err := validate(t); err != nil {
		return nil, err
	}

	var inv *billing.Invoice
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, t); err != nil {
			return fmt.Errorf("create treatment: %w", err)
		}
		inv = InvoiceFor(t)
		if err := s.invoices.CreateInvoice(ctx, actor, inv); err != nil {
			return fmt.Errorf("issue invoice: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor, audit.ActionCreate, "Treatment", t.ID.String(),
		fmt.Sprintf("Recorded %s (%.2f), invoice %s", t.Description, t.Cost, inv.ID))
	return inv, nil
}

func (s *Service) GetTreatment(ctx context.Context, id uuid.UUID) (*Treatment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListTreatments(ctx context.Context, limit, offset int) ([]*Treatment, int, error) {
	return s.repo.List(ctx, limit, offset)
}
