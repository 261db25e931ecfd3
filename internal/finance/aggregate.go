package finance

import (
	"github.com/shopspring/decimal"

	"github.com/waghrental/rentledger/internal/domain"
)

// Record is anything with a date and an amount: payments and expenses.
type Record interface {
	RecordDate() domain.Date
	RecordAmount() decimal.Decimal
}

// MonthTotal is one bucket of a monthly series.
type MonthTotal struct {
	Month  MonthKey        `json:"month"`
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

// MonthProfit is the merged income/expense view of one month.
type MonthProfit struct {
	Month    MonthKey        `json:"month"`
	Label    string          `json:"label"`
	Payments decimal.Decimal `json:"payments"`
	Expenses decimal.Decimal `json:"expenses"`
	Net      decimal.Decimal `json:"net"`
}

// IsProfit reports whether the month closed at or above zero.
func (m MonthProfit) IsProfit() bool {
	return !m.Net.IsNegative()
}

// MonthlyTotals sums amounts per UTC month. Empty input gives an empty map.
func MonthlyTotals[R Record](records []R) map[MonthKey]decimal.Decimal {
	totals := make(map[MonthKey]decimal.Decimal)
	for _, r := range records {
		key := MonthKeyOf(r.RecordDate())
		totals[key] = totals[key].Add(r.RecordAmount())
	}
	return totals
}

// Sum totals the amounts of records.
func Sum[R Record](records []R) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.RecordAmount())
	}
	return total
}

// InMonth keeps the records dated inside month.
func InMonth[R Record](records []R, month MonthKey) []R {
	var out []R
	for _, r := range records {
		if month.Contains(r.RecordDate()) {
			out = append(out, r)
		}
	}
	return out
}

// DistinctMonths counts the months that have at least one record.
func DistinctMonths[R Record](records []R) int {
	seen := make(map[MonthKey]struct{})
	for _, r := range records {
		seen[MonthKeyOf(r.RecordDate())] = struct{}{}
	}
	return len(seen)
}

// SortedTotals flattens a totals map into a series, most recent month first.
func SortedTotals(totals map[MonthKey]decimal.Decimal) []MonthTotal {
	keys := make([]MonthKey, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	SortMonthsDesc(keys)

	out := make([]MonthTotal, 0, len(keys))
	for _, k := range keys {
		out = append(out, MonthTotal{Month: k, Label: k.Label(), Amount: totals[k]})
	}
	return out
}

// ProfitLoss merges payment and expense totals over the union of their
// months, substituting zero for a missing side. Most recent month first.
func ProfitLoss(payments, expenses map[MonthKey]decimal.Decimal) []MonthProfit {
	union := make(map[MonthKey]struct{}, len(payments)+len(expenses))
	for k := range payments {
		union[k] = struct{}{}
	}
	for k := range expenses {
		union[k] = struct{}{}
	}
	keys := make([]MonthKey, 0, len(union))
	for k := range union {
		keys = append(keys, k)
	}
	SortMonthsDesc(keys)

	out := make([]MonthProfit, 0, len(keys))
	for _, k := range keys {
		in := payments[k]
		spent := expenses[k]
		out = append(out, MonthProfit{
			Month:    k,
			Label:    k.Label(),
			Payments: in,
			Expenses: spent,
			Net:      in.Sub(spent),
		})
	}
	return out
}
