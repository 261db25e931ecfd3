package finance

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/waghrental/rentledger/internal/domain"
)

// Dashboard is the portfolio-wide overview. AsOf is the UTC calendar date,
// as in SummaryRecord.
type Dashboard struct {
	AsOf                  domain.Date     `json:"asOf"`
	PropertyCount         int             `json:"propertyCount"`
	ActiveTenantCount     int             `json:"activeTenantCount"`
	ArchivedTenantCount   int             `json:"archivedTenantCount"`
	ExpectedMonthlyRent   decimal.Decimal `json:"expectedMonthlyRent"`
	TotalPayments         decimal.Decimal `json:"totalPayments"`
	TotalExpenses         decimal.Decimal `json:"totalExpenses"`
	ProfitLoss            decimal.Decimal `json:"profitLoss"`
	AverageMonthlyExpense decimal.Decimal `json:"averageMonthlyExpense"`
	Summary               SummaryRecord   `json:"summary"`
	Months                []MonthProfit   `json:"months"`
}

// MonthlyReport is the per-month payment, expense and net series.
type MonthlyReport struct {
	Payments []MonthTotal  `json:"payments"`
	Expenses []MonthTotal  `json:"expenses"`
	Months   []MonthProfit `json:"months"`
}

// BuildMonthlyReport buckets a snapshot's payments and expenses by month.
func BuildMonthlyReport(s Snapshot) MonthlyReport {
	paid := MonthlyTotals(s.Payments)
	spent := MonthlyTotals(s.Expenses)
	return MonthlyReport{
		Payments: SortedTotals(paid),
		Expenses: SortedTotals(spent),
		Months:   ProfitLoss(paid, spent),
	}
}

// BuildDashboard computes the overview of s as of asOf.
func (sp StatusPolicy) BuildDashboard(s Snapshot, asOf time.Time) Dashboard {
	d := Dashboard{
		AsOf:          domain.DateOf(asOf.UTC()),
		PropertyCount: len(s.Properties),
		TotalPayments: Sum(s.Payments),
		TotalExpenses: Sum(s.Expenses),
		Summary:       sp.SummaryStats(s.Tenants, s.Payments, s.Expenses, asOf),
		Months:        BuildMonthlyReport(s).Months,
	}
	for _, t := range s.Tenants {
		if t.IsActive() {
			d.ActiveTenantCount++
		} else {
			d.ArchivedTenantCount++
		}
	}
	d.ExpectedMonthlyRent = d.Summary.ExpectedMonthlyRent
	d.ProfitLoss = d.TotalPayments.Sub(d.TotalExpenses)
	d.AverageMonthlyExpense = AverageMonthly(d.TotalExpenses, DistinctMonths(s.Expenses))
	return d
}

// AverageMonthly spreads total evenly over months, rounded to cents.
func AverageMonthly(total decimal.Decimal, months int) decimal.Decimal {
	if months <= 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(months))).Round(2)
}
