package billing

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound    = errors.New("invoice not found")
	ErrInvalid     = errors.New("invalid invoice")
	ErrAlreadyPaid = errors.New("invoice is already paid")
)

type PaymentMethod string

const (
	MethodCash   PaymentMethod = "cash"
	MethodCredit PaymentMethod = "credit"
)

func (m PaymentMethod) Valid() bool {
	return m == MethodCash || m == MethodCredit
}

type PaymentStatus string

const (
	StatusPending PaymentStatus = "pending"
	StatusPaid    PaymentStatus = "paid"
	StatusOverdue PaymentStatus = "overdue"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusOverdue:
		return true
	}
	return false
}

// LineItem is stored inside the invoice's items JSONB column.
type LineItem struct {
	ID          string  `json:"id,omitempty"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	TotalPrice  float64 `json:"total_price"`
}

type Invoice struct {
	ID            uuid.UUID     `db:"id" json:"id"`
	PatientID     uuid.UUID     `db:"patient_id" json:"patient_id"`
	AppointmentID *uuid.UUID    `db:"appointment_id" json:"appointment_id,omitempty"`
	TotalAmount   float64       `db:"total_amount" json:"total_amount"`
	PaymentMethod PaymentMethod `db:"payment_method" json:"payment_method"`
	PaymentStatus PaymentStatus `db:"payment_status" json:"payment_status"`
	DateIssued    time.Time     `db:"date_issued" json:"date_issued"`
	DatePaid      *time.Time    `db:"date_paid" json:"date_paid,omitempty"`
	Items         []LineItem    `db:"items" json:"items"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updated_at"`
}

// Recalculate sets every line total to quantity × unit price and the invoice
// total to their sum, rounded to cents.
func (inv *Invoice) Recalculate() {
	var total float64
	for i := range inv.Items {
		it := &inv.Items[i]
		it.TotalPrice = roundCents(float64(it.Quantity) * it.UnitPrice)
		total += it.TotalPrice
	}
	inv.TotalAmount = roundCents(total)
}

// MarkPaid settles a pending or overdue invoice.
func (inv *Invoice) MarkPaid(method PaymentMethod, at time.Time) error {
	if inv.PaymentStatus == StatusPaid {
		return ErrAlreadyPaid
	}
	inv.PaymentStatus = StatusPaid
	inv.PaymentMethod = method
	inv.DatePaid = &at
	return nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
