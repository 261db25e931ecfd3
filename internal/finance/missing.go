package finance

import (
	"github.com/shopspring/decimal"

	"github.com/waghrental/rentledger/internal/domain"
)

// MissingEntry is an active tenant with no payment in the target month.
type MissingEntry struct {
	Tenant         domain.Tenant    `json:"tenant"`
	ExpectedAmount decimal.Decimal  `json:"expectedAmount"`
	Property       *domain.Property `json:"property,omitempty"`
	PropertyName   string           `json:"propertyName"`
}

// MissingPayments lists, in tenant order, the active tenants without any
// payment dated in target. Archived tenants are never reported, and one
// payment of any amount or status is enough to count as paid.
func MissingPayments(target MonthKey, tenants []domain.Tenant, payments []domain.Payment, properties []domain.Property) []MissingEntry {
	paid := make(map[string]struct{})
	for _, p := range payments {
		if target.Contains(p.Date) {
			paid[p.TenantID] = struct{}{}
		}
	}

	ix := newIndex(properties, nil)
	out := make([]MissingEntry, 0)
	for _, t := range tenants {
		if !t.IsActive() {
			continue
		}
		if _, ok := paid[t.ID]; ok {
			continue
		}
		entry := MissingEntry{
			Tenant:         t,
			ExpectedAmount: t.RentAmount,
			PropertyName:   ix.PropertyName(t.PropertyID),
		}
		if prop, ok := ix.Property(t.PropertyID); ok {
			cp := *prop
			entry.Property = &cp
		}
		out = append(out, entry)
	}
	return out
}

// MissingTotal sums the rent still expected from the entries.
func MissingTotal(entries []MissingEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.ExpectedAmount)
	}
	return total
}
