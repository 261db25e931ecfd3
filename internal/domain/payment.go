package domain

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the stored status of a rent payment.
type PaymentStatus string

const (
	StatusCompleted PaymentStatus = "completed"
	StatusPending   PaymentStatus = "pending"
	StatusLate      PaymentStatus = "late"
	StatusPartial   PaymentStatus = "partial"
)

// DefaultPaymentMethod is used when a payment is recorded without a method.
const DefaultPaymentMethod = "bank_transfer"

// Valid reports whether s is one of the four known statuses.
func (s PaymentStatus) Valid() bool {
	switch s {
	case StatusCompleted, StatusPending, StatusLate, StatusPartial:
		return true
	}
	return false
}

// Collected reports whether money from a payment in this status counts as
// collected rent.
func (s PaymentStatus) Collected() bool {
	return s == StatusCompleted || s == StatusPartial
}

// Payment is a single rent payment by a tenant.
type Payment struct {
	ID            string          `json:"id"`
	TenantID      string          `json:"tenantId"`
	Amount        decimal.Decimal `json:"amount"`
	Date          Date            `json:"date"`
	PaymentMethod string          `json:"paymentMethod"`
	Status        PaymentStatus   `json:"status"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// RecordDate returns the payment date.
func (p Payment) RecordDate() Date { return p.Date }

// RecordAmount returns the payment amount.
func (p Payment) RecordAmount() decimal.Decimal { return p.Amount }

// ApplyDefaults fills the optional fields a form may leave blank.
func (p *Payment) ApplyDefaults() {
	if p.Status == "" {
		p.Status = StatusCompleted
	}
	if strings.TrimSpace(p.PaymentMethod) == "" {
		p.PaymentMethod = DefaultPaymentMethod
	}
	p.Amount = p.Amount.Round(2)
}

// Validate checks the user-supplied fields of a payment.
func (p Payment) Validate() error {
	var errs []error
	if strings.TrimSpace(p.TenantID) == "" {
		errs = append(errs, field("tenantId", ErrMissingReference))
	}
	if !p.Amount.IsPositive() {
		errs = append(errs, field("amount", ErrInvalidAmount))
	}
	if p.Date.IsZero() {
		errs = append(errs, field("date", ErrInvalidDate))
	}
	if !p.Status.Valid() {
		errs = append(errs, field("status", ErrInvalidStatus))
	}
	return validation(errs...)
}

// PaymentFilter narrows a payment listing.
type PaymentFilter struct {
	TenantID string
}

// PaymentRepository defines data access for payments
type PaymentRepository interface {
	Create(ctx context.Context, payment *Payment) error
	GetByID(ctx context.Context, id string) (*Payment, error)
	Update(ctx context.Context, payment *Payment) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter PaymentFilter) ([]Payment, error)
}
