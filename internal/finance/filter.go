package finance

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/waghrental/rentledger/internal/domain"
)

// DateRange names a preset period for expense filtering.
type DateRange string

const (
	RangeAll       DateRange = ""
	RangeThisMonth DateRange = "thisMonth"
	RangeLastMonth DateRange = "lastMonth"
	RangeThisYear  DateRange = "thisYear"
	RangeLastYear  DateRange = "lastYear"
	RangeCustom    DateRange = "custom"
)

// ParseDateRange validates a preset name. "all" and "" mean no range.
func ParseDateRange(s string) (DateRange, error) {
	switch r := DateRange(strings.TrimSpace(s)); r {
	case RangeAll, RangeThisMonth, RangeLastMonth, RangeThisYear, RangeLastYear, RangeCustom:
		return r, nil
	case "all":
		return RangeAll, nil
	}
	return "", fmt.Errorf("%w: unknown range %q", domain.ErrInvalidDate, s)
}

// Bounds returns the inclusive first and last date of the range, evaluated
// in UTC against asOf. Custom ranges use from/to; either may be zero for an
// open end. ok is false for RangeAll.
func (r DateRange) Bounds(asOf time.Time, from, to domain.Date) (start, end domain.Date, ok bool) {
	now := MonthKeyAt(asOf)
	switch r {
	case RangeThisMonth:
		return now.First(), now.Last(), true
	case RangeLastMonth:
		prev := now.Prev()
		return prev.First(), prev.Last(), true
	case RangeThisYear:
		return domain.NewDate(now.Year, time.January, 1), domain.NewDate(now.Year, time.December, 31), true
	case RangeLastYear:
		return domain.NewDate(now.Year-1, time.January, 1), domain.NewDate(now.Year-1, time.December, 31), true
	case RangeCustom:
		return from, to, true
	}
	return domain.Date{}, domain.Date{}, false
}

// ExpenseQuery is the set of filters an expense listing supports.
type ExpenseQuery struct {
	PropertyID string
	Category   domain.ExpenseCategory
	Search     string
	Range      DateRange
	From       domain.Date
	To         domain.Date
}

// Match reports whether e passes every filter in q.
func (q ExpenseQuery) Match(e domain.Expense, asOf time.Time) bool {
	if q.PropertyID != "" && e.PropertyID != q.PropertyID {
		return false
	}
	if q.Category != "" && e.Category != q.Category {
		return false
	}
	if s := strings.ToLower(strings.TrimSpace(q.Search)); s != "" {
		if !strings.Contains(strings.ToLower(e.Description), s) &&
			!strings.Contains(strings.ToLower(string(e.Category)), s) {
			return false
		}
	}
	if start, end, ok := q.Range.Bounds(asOf, q.From, q.To); ok {
		if !start.IsZero() && e.Date.Before(start.Time) {
			return false
		}
		if !end.IsZero() && e.Date.After(end.Time) {
			return false
		}
	}
	return true
}

// FilterExpenses applies q and returns the matches newest first.
func FilterExpenses(expenses []domain.Expense, q ExpenseQuery, asOf time.Time) []domain.Expense {
	out := make([]domain.Expense, 0, len(expenses))
	for _, e := range expenses {
		if q.Match(e, asOf) {
			out = append(out, e)
		}
	}
	sortExpensesDesc(out)
	return out
}

// AmountCount pairs a total with the number of records behind it.
type AmountCount struct {
	Amount decimal.Decimal `json:"amount"`
	Count  int             `json:"count"`
}

func amountCount(expenses []domain.Expense) AmountCount {
	return AmountCount{Amount: Sum(expenses), Count: len(expenses)}
}

// ExpenseStats summarizes expenses for the expense overview.
type ExpenseStats struct {
	Total       AmountCount     `json:"total"`
	ThisMonth   AmountCount     `json:"thisMonth"`
	ThisYear    AmountCount     `json:"thisYear"`
	ByCategory  *Breakdown      `json:"byCategory"`
	ByProperty  *Breakdown      `json:"byProperty"`
	TopCategory *BreakdownEntry `json:"topCategory,omitempty"`
}

// BuildExpenseStats computes totals over filtered, this-month and this-year
// figures over all, and category/property breakdowns over filtered.
func BuildExpenseStats(ix *Index, all, filtered []domain.Expense, asOf time.Time) ExpenseStats {
	var thisMonth, thisYear []domain.Expense
	now := MonthKeyAt(asOf)
	for _, e := range all {
		if e.Date.Year() != now.Year {
			continue
		}
		thisYear = append(thisYear, e)
		if e.Date.Month() == now.Month {
			thisMonth = append(thisMonth, e)
		}
	}

	stats := ExpenseStats{
		Total:      amountCount(filtered),
		ThisMonth:  amountCount(thisMonth),
		ThisYear:   amountCount(thisYear),
		ByCategory: CategoryBreakdown(filtered),
		ByProperty: PropertyBreakdown(ix, filtered),
	}
	if top, ok := stats.ByCategory.Top(); ok {
		stats.TopCategory = &top
	}
	return stats
}

// CategoryBreakdown sums expenses per category.
func CategoryBreakdown(expenses []domain.Expense) *Breakdown {
	return BreakdownBy(expenses, func(e domain.Expense) string { return string(e.Category) })
}

// PropertyBreakdown sums expenses per property name.
func PropertyBreakdown(ix *Index, expenses []domain.Expense) *Breakdown {
	return BreakdownBy(expenses, func(e domain.Expense) string { return ix.PropertyName(e.PropertyID) })
}

// PaymentsByProperty sums payments per property name through the tenant.
func PaymentsByProperty(ix *Index, payments []domain.Payment) *Breakdown {
	return BreakdownBy(payments, func(p domain.Payment) string {
		if prop, ok := ix.PropertyOfTenant(p.TenantID); ok {
			return prop.Name
		}
		return UnknownProperty
	})
}

func sortExpensesDesc(expenses []domain.Expense) {
	sort.SliceStable(expenses, func(i, j int) bool {
		return expenses[i].Date.After(expenses[j].Date.Time)
	})
}

// SortPaymentsDesc orders payments newest first, keeping ties stable.
func SortPaymentsDesc(payments []domain.Payment) {
	sort.SliceStable(payments, func(i, j int) bool {
		return payments[i].Date.After(payments[j].Date.Time)
	})
}
