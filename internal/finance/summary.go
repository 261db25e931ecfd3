package finance

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/waghrental/rentledger/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// SummaryRecord is the headline rent collection state for one month.
type SummaryRecord struct {
	AsOf                domain.Date     `json:"asOf"`
	Month               MonthKey        `json:"month"`
	ActiveTenants       int             `json:"activeTenants"`
	ExpectedMonthlyRent decimal.Decimal `json:"expectedMonthlyRent"`
	CollectedThisMonth  decimal.Decimal `json:"collectedThisMonth"`
	CollectionRate      decimal.Decimal `json:"collectionRate"`
	ExpensesThisMonth   decimal.Decimal `json:"expensesThisMonth"`
	LatePayments        int             `json:"latePayments"`
	PendingPayments     int             `json:"pendingPayments"`
}

// SummaryStats applies DefaultPolicy.
func SummaryStats(tenants []domain.Tenant, payments []domain.Payment, expenses []domain.Expense, asOf time.Time) SummaryRecord {
	return DefaultPolicy.SummaryStats(tenants, payments, expenses, asOf)
}

// SummaryStats computes expected rent over active tenants, rent collected
// in asOf's UTC month from completed or partial payments, and the ratio
// of the two as a percentage (zero when nothing is expected).
func (sp StatusPolicy) SummaryStats(tenants []domain.Tenant, payments []domain.Payment, expenses []domain.Expense, asOf time.Time) SummaryRecord {
	month := MonthKeyAt(asOf)
	rec := SummaryRecord{
		AsOf:                domain.DateOf(asOf.UTC()),
		Month:               month,
		ExpectedMonthlyRent: ExpectedMonthlyRent(tenants),
		CollectedThisMonth:  decimal.Zero,
		ExpensesThisMonth:   Sum(InMonth(expenses, month)),
	}
	for _, t := range tenants {
		if t.IsActive() {
			rec.ActiveTenants++
		}
	}
	for _, p := range payments {
		if month.Contains(p.Date) && p.Status.Collected() {
			rec.CollectedThisMonth = rec.CollectedThisMonth.Add(p.Amount)
		}
		switch sp.EffectiveStatus(p, asOf).Status {
		case domain.StatusLate:
			rec.LatePayments++
		case domain.StatusPending:
			rec.PendingPayments++
		}
	}
	rec.CollectionRate = CollectionRate(rec.CollectedThisMonth, rec.ExpectedMonthlyRent)
	return rec
}

// ExpectedMonthlyRent sums rent over active tenants.
func ExpectedMonthlyRent(tenants []domain.Tenant) decimal.Decimal {
	total := decimal.Zero
	for _, t := range tenants {
		if t.IsActive() {
			total = total.Add(t.RentAmount)
		}
	}
	return total
}

// CollectionRate returns collected/expected*100 rounded to two places, or
// zero when expected is zero.
func CollectionRate(collected, expected decimal.Decimal) decimal.Decimal {
	if expected.IsZero() {
		return decimal.Zero
	}
	return collected.Div(expected).Mul(hundred).Round(2)
}
