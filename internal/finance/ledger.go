package finance

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/waghrental/rentledger/internal/domain"
)

// PaymentLine is a payment annotated for display.
type PaymentLine struct {
	domain.Payment
	Effective      StatusView `json:"effective"`
	TenantName     string     `json:"tenantName"`
	PropertyID     string     `json:"propertyId,omitempty"`
	PropertyName   string     `json:"propertyName"`
	TenantArchived bool       `json:"tenantArchived"`
}

// ExpenseLine is an expense annotated with its property name.
type ExpenseLine struct {
	domain.Expense
	PropertyName string `json:"propertyName"`
}

// AnnotatePayments labels each payment using ix and derives its effective
// status. Order is preserved.
func (sp StatusPolicy) AnnotatePayments(ix *Index, payments []domain.Payment, asOf time.Time) []PaymentLine {
	out := make([]PaymentLine, 0, len(payments))
	for _, p := range payments {
		line := PaymentLine{
			Payment:      p,
			Effective:    sp.EffectiveStatus(p, asOf),
			TenantName:   ix.TenantName(p.TenantID),
			PropertyName: UnknownProperty,
		}
		if t, ok := ix.Tenant(p.TenantID); ok {
			line.TenantArchived = t.IsArchived
			line.PropertyID = t.PropertyID
			line.PropertyName = ix.PropertyName(t.PropertyID)
		}
		out = append(out, line)
	}
	return out
}

// AnnotateExpenses labels each expense with its property name.
func AnnotateExpenses(ix *Index, expenses []domain.Expense) []ExpenseLine {
	out := make([]ExpenseLine, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, ExpenseLine{Expense: e, PropertyName: ix.PropertyName(e.PropertyID)})
	}
	return out
}

// MonthDetail is everything recorded in one month.
type MonthDetail struct {
	Month         MonthKey        `json:"month"`
	Label         string          `json:"label"`
	PropertyID    string          `json:"propertyId,omitempty"`
	Payments      []PaymentLine   `json:"payments"`
	Expenses      []ExpenseLine   `json:"expenses"`
	TotalPayments decimal.Decimal `json:"totalPayments"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	Net           decimal.Decimal `json:"net"`
}

// BuildMonthDetail collects month's payments and expenses. A non-empty
// propertyID keeps only expenses on that property and payments whose tenant
// lives there; payments from unknown tenants drop out of a filtered view.
func (sp StatusPolicy) BuildMonthDetail(s Snapshot, month MonthKey, propertyID string, asOf time.Time) MonthDetail {
	ix := NewIndex(s)

	var payments []domain.Payment
	for _, p := range InMonth(s.Payments, month) {
		if propertyID != "" {
			t, ok := ix.Tenant(p.TenantID)
			if !ok || t.PropertyID != propertyID {
				continue
			}
		}
		payments = append(payments, p)
	}
	var expenses []domain.Expense
	for _, e := range InMonth(s.Expenses, month) {
		if propertyID == "" || e.PropertyID == propertyID {
			expenses = append(expenses, e)
		}
	}
	SortPaymentsDesc(payments)
	sortExpensesDesc(expenses)

	d := MonthDetail{
		Month:         month,
		Label:         month.Label(),
		PropertyID:    propertyID,
		Payments:      sp.AnnotatePayments(ix, payments, asOf),
		Expenses:      AnnotateExpenses(ix, expenses),
		TotalPayments: Sum(payments),
		TotalExpenses: Sum(expenses),
	}
	d.Net = d.TotalPayments.Sub(d.TotalExpenses)
	return d
}
