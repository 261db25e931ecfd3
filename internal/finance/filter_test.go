package finance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waghrental/rentledger/internal/domain"
)

func filterFixture() []domain.Expense {
	return []domain.Expense{
		expense("e1", "P1", "100", day(2024, time.March, 2), domain.CategoryMaintenance, "Roof patch"),
		expense("e2", "P2", "250", day(2024, time.March, 15), domain.CategoryInsurance, "Policy renewal"),
		expense("e3", "P1", "75", day(2024, time.February, 20), domain.CategoryUtilityBills, "Water"),
		expense("e4", "P1", "40", day(2023, time.July, 1), domain.CategoryMaintenance, "Gutter clean"),
	}
}

func ids(expenses []domain.Expense) []string {
	out := make([]string, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, e.ID)
	}
	return out
}

func TestFilterExpensesRanges(t *testing.T) {
	asOf := at(2024, time.March, 20)
	all := filterFixture()

	tests := []struct {
		name  string
		query ExpenseQuery
		want  []string
	}{
		{"all newest first", ExpenseQuery{}, []string{"e2", "e1", "e3", "e4"}},
		{"this month", ExpenseQuery{Range: RangeThisMonth}, []string{"e2", "e1"}},
		{"last month", ExpenseQuery{Range: RangeLastMonth}, []string{"e3"}},
		{"this year", ExpenseQuery{Range: RangeThisYear}, []string{"e2", "e1", "e3"}},
		{"last year", ExpenseQuery{Range: RangeLastYear}, []string{"e4"}},
		{"custom inclusive", ExpenseQuery{Range: RangeCustom, From: day(2024, time.February, 20), To: day(2024, time.March, 2)}, []string{"e1", "e3"}},
		{"custom open end", ExpenseQuery{Range: RangeCustom, From: day(2024, time.March, 3)}, []string{"e2"}},
		{"property", ExpenseQuery{PropertyID: "P1"}, []string{"e1", "e3", "e4"}},
		{"category", ExpenseQuery{Category: domain.CategoryMaintenance}, []string{"e1", "e4"}},
		{"search description", ExpenseQuery{Search: "ROOF"}, []string{"e1"}},
		{"search category", ExpenseQuery{Search: "utility"}, []string{"e3"}},
		{"combined", ExpenseQuery{PropertyID: "P1", Category: domain.CategoryMaintenance, Range: RangeThisYear}, []string{"e1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(FilterExpenses(all, tt.query, asOf)))
		})
	}
}

func TestLastMonthAcrossYearBoundary(t *testing.T) {
	start, end, ok := RangeLastMonth.Bounds(at(2024, time.January, 10), domain.Date{}, domain.Date{})
	require.True(t, ok)
	assert.Equal(t, day(2023, time.December, 1), start)
	assert.Equal(t, day(2023, time.December, 31), end)
}

func TestParseDateRange(t *testing.T) {
	r, err := ParseDateRange("thisYear")
	require.NoError(t, err)
	assert.Equal(t, RangeThisYear, r)

	r, err = ParseDateRange("all")
	require.NoError(t, err)
	assert.Equal(t, RangeAll, r)

	_, err = ParseDateRange("fortnight")
	assert.ErrorIs(t, err, domain.ErrInvalidDate)
}

func TestBuildExpenseStats(t *testing.T) {
	all := filterFixture()
	ix := newIndex([]domain.Property{{ID: "P1", Name: "Maple Court"}}, nil)
	asOf := at(2024, time.March, 20)

	filtered := FilterExpenses(all, ExpenseQuery{Range: RangeThisYear}, asOf)
	stats := BuildExpenseStats(ix, all, filtered, asOf)

	assertDecimal(t, "425", stats.Total.Amount)
	assert.Equal(t, 3, stats.Total.Count)
	assertDecimal(t, "350", stats.ThisMonth.Amount)
	assert.Equal(t, 2, stats.ThisMonth.Count)
	assertDecimal(t, "425", stats.ThisYear.Amount)

	require.NotNil(t, stats.TopCategory)
	assert.Equal(t, string(domain.CategoryInsurance), stats.TopCategory.Name)

	byProp := stats.ByProperty.Entries()
	require.Len(t, byProp, 2)
	assert.Equal(t, UnknownProperty, byProp[0].Name)
	assertDecimal(t, "250", byProp[0].Amount)
	assert.Equal(t, "Maple Court", byProp[1].Name)
}

func TestBuildExpenseStatsEmpty(t *testing.T) {
	stats := BuildExpenseStats(newIndex(nil, nil), nil, nil, at(2024, time.March, 20))
	assert.Nil(t, stats.TopCategory)
	assert.Zero(t, stats.Total.Count)
	assert.True(t, stats.Total.Amount.IsZero())
}
