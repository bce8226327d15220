package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clinic/clinic/internal/domain/audit"
	"github.com/clinic/clinic/internal/platform/auth"
)

// IssueCounter is notified for every invoice created.
type IssueCounter interface {
	InvoiceIssued(method string)
}

type Service struct {
	repo   Repository
	audit  audit.Recorder
	issued IssueCounter
	now    func() time.Time
}

func NewService(repo Repository, rec audit.Recorder, issued IssueCounter) *Service {
	return &Service{repo: repo, audit: rec, issued: issued, now: time.Now}
}

func validate(inv *Invoice) error {
	if inv.PatientID == uuid.Nil {
		return fmt.Errorf("%w: patient_id is required", ErrInvalid)
	}
	if len(inv.Items) == 0 {
		return fmt.Errorf("%w: at least one line item is required", ErrInvalid)
	}
	for i, it := range inv.Items {
		if strings.TrimSpace(it.Description) == "" {
			return fmt.Errorf("%w: item %d: description is required", ErrInvalid, i+1)
		}
		if it.Quantity <= 0 {
			return fmt.Errorf("%w: item %d: quantity must be positive", ErrInvalid, i+1)
		}
		if it.UnitPrice < 0 {
			return fmt.Errorf("%w: item %d: unit_price must not be negative", ErrInvalid, i+1)
		}
	}
	if !inv.PaymentMethod.Valid() {
		return fmt.Errorf("%w: payment_method must be cash or credit", ErrInvalid)
	}
	if !inv.PaymentStatus.Valid() {
		return fmt.Errorf("%w: unknown payment_status %q", ErrInvalid, inv.PaymentStatus)
	}
	return nil
}

// CreateInvoice totals the line items and persists a new invoice, pending and
// cash unless stated otherwise.
func (s *Service) CreateInvoice(ctx context.Context, actor auth.Actor, inv *Invoice) error {
	if inv.PaymentMethod == "" {
		inv.PaymentMethod = MethodCash
	}
	if inv.PaymentStatus == "" {
		inv.PaymentStatus = StatusPending
	}
	if inv.DateIssued.IsZero() {
		inv.DateIssued = s.now()
	}
	if err := validate(inv); err != nil {
		return err
	}
	inv.Recalculate()
	if inv.PaymentStatus == StatusPaid && inv.DatePaid == nil {
		paid := inv.DateIssued
		inv.DatePaid = &paid
	}

	if err := s.repo.Create(ctx, inv); err != nil {
		return fmt.Errorf("create invoice: %w", err)
	}
	if s.issued != nil {
		s.issued.InvoiceIssued(string(inv.PaymentMethod))
	}
	s.audit.Record(ctx, actor, audit.ActionCreate, "Invoice", inv.ID.String(),
		fmt.Sprintf("Issued invoice of %.2f", inv.TotalAmount))
	return nil
}

func (s *Service) GetInvoice(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateInvoice(ctx context.Context, actor auth.Actor, inv *Invoice) error {
	stored, err := s.repo.GetByID(ctx, inv.ID)
	if err != nil {
		return err
	}
	if inv.DateIssued.IsZero() {
		inv.DateIssued = stored.DateIssued
	}
	if err := validate(inv); err != nil {
		return err
	}
	inv.Recalculate()
	if inv.PaymentStatus != StatusPaid {
		inv.DatePaid = nil
	} else if inv.DatePaid == nil {
		now := s.now()
		inv.DatePaid = &now
	}
	if err := s.repo.Update(ctx, inv); err != nil {
		return err
	}
	s.audit.Record(ctx, actor, audit.ActionUpdate, "Invoice", inv.ID.String(),
		fmt.Sprintf("Updated invoice (%s, %.2f)", inv.PaymentStatus, inv.TotalAmount))
	return nil
}

func (s *Service) MarkPaid(ctx context.Context, actor auth.Actor, id uuid.UUID, method PaymentMethod) (*Invoice, error) {
	if method == "" {
		method = MethodCash
	}
	if !method.Valid() {
		return nil, fmt.Errorf("%w: payment_method must be cash or credit", ErrInvalid)
	}
	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := inv.MarkPaid(method, s.now()); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, inv); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actor, audit.ActionUpdate, "Invoice", id.String(),
		fmt.Sprintf("Marked paid by %s", method))
	return inv, nil
}

func (s *Service) ListInvoices(ctx context.Context, status PaymentStatus, limit, offset int) ([]*Invoice, int, error) {
	if status != "" && !status.Valid() {
		return nil, 0, fmt.Errorf("%w: unknown payment_status %q", ErrInvalid, status)
	}
	return s.repo.List(ctx, status, limit, offset)
}
