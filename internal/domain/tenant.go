package domain

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Tenant is a person renting at a property. Archived tenants keep their
// payment history but no longer owe rent.
type Tenant struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Phone      string          `json:"phone"`
	PropertyID string          `json:"propertyId"`
	RentAmount decimal.Decimal `json:"rentAmount"`
	LeaseStart Date            `json:"leaseStart"`
	LeaseEnd   Date            `json:"leaseEnd"`
	IsArchived bool            `json:"isArchived"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// IsActive reports whether the tenant counts toward expected rent.
func (t Tenant) IsActive() bool {
	return !t.IsArchived
}

// Validate checks the user-supplied fields of a tenant.
func (t Tenant) Validate() error {
	var errs []error
	if strings.TrimSpace(t.Name) == "" {
		errs = append(errs, field("name", ErrEmptyName))
	}
	if strings.TrimSpace(t.PropertyID) == "" {
		errs = append(errs, field("propertyId", ErrMissingReference))
	}
	if t.RentAmount.IsNegative() {
		errs = append(errs, field("rentAmount", ErrNegativeAmount))
	}
	if t.Email != "" && !strings.Contains(t.Email, "@") {
		errs = append(errs, field("email", ErrInvalidEmail))
	}
	if !t.LeaseStart.IsZero() && !t.LeaseEnd.IsZero() && t.LeaseEnd.Before(t.LeaseStart.Time) {
		errs = append(errs, field("leaseEnd", ErrLeaseRange))
	}
	return validation(errs...)
}

// TenantFilter narrows a tenant listing.
type TenantFilter struct {
	IncludeArchived bool
	PropertyID      string
}

// TenantRepository defines data access for tenants
type TenantRepository interface {
	Create(ctx context.Context, tenant *Tenant) error
	GetByID(ctx context.Context, id string) (*Tenant, error)
	Update(ctx context.Context, tenant *Tenant) error
	SetArchived(ctx context.Context, id string, archived bool) (*Tenant, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter TenantFilter) ([]Tenant, error)
}
