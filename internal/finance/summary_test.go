package finance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waghrental/rentledger/internal/domain"
)

func TestSummaryStatsScenario(t *testing.T) {
	tenants := []domain.Tenant{tenant("T1", "P1", "1500", false)}
	payments := []domain.Payment{payment("pay1", "T1", "1500", day(2024, time.March, 5), domain.StatusCompleted)}

	s := SummaryStats(tenants, payments, nil, at(2024, time.March, 20))
	assert.Equal(t, MonthKey{Year: 2024, Month: time.March}, s.Month)
	assert.Equal(t, 1, s.ActiveTenants)
	assertDecimal(t, "1500", s.ExpectedMonthlyRent)
	assertDecimal(t, "1500", s.CollectedThisMonth)
	assertDecimal(t, "100", s.CollectionRate)
}

func TestSummaryStatsZeroTenants(t *testing.T) {
	payments := []domain.Payment{payment("pay1", "T1", "1500", day(2024, time.March, 5), domain.StatusCompleted)}
	s := SummaryStats(nil, payments, nil, at(2024, time.March, 20))
	assert.True(t, s.CollectionRate.IsZero())
	assertDecimal(t, "1500", s.CollectedThisMonth)

	archived := []domain.Tenant{tenant("T1", "P1", "1500", true)}
	s = SummaryStats(archived, payments, nil, at(2024, time.March, 20))
	assert.True(t, s.CollectionRate.IsZero())
	assert.Zero(t, s.ActiveTenants)
}

func TestSummaryStatsCountsOnlyCollectedStatuses(t *testing.T) {
	tenants := []domain.Tenant{
		tenant("T1", "P1", "1000", false),
		tenant("T2", "P1", "2000", false),
		tenant("T3", "P1", "500", true),
	}
	mar := day(2024, time.March, 1)
	payments := []domain.Payment{
		payment("a", "T1", "1000", mar, domain.StatusCompleted),
		payment("b", "T2", "500", mar, domain.StatusPartial),
		payment("c", "T2", "1500", mar, domain.StatusPending),
		payment("d", "T1", "1000", day(2024, time.February, 1), domain.StatusCompleted),
	}
	expenses := []domain.Expense{
		expense("e1", "P1", "250", day(2024, time.March, 12), domain.CategoryMaintenance, ""),
		expense("e2", "P1", "99", day(2024, time.February, 12), domain.CategoryMaintenance, ""),
	}

	s := SummaryStats(tenants, payments, expenses, at(2024, time.March, 10))
	assertDecimal(t, "3000", s.ExpectedMonthlyRent)
	assertDecimal(t, "1500", s.CollectedThisMonth)
	assertDecimal(t, "50", s.CollectionRate)
	assertDecimal(t, "250", s.ExpensesThisMonth)
	assert.Equal(t, 1, s.LatePayments)
	assert.Zero(t, s.PendingPayments)
}

func TestCollectionRateRounding(t *testing.T) {
	assertDecimal(t, "33.33", CollectionRate(dec("1"), dec("3")))
	assertDecimal(t, "0", CollectionRate(dec("10"), dec("0")))
}

func TestBreakdownTopTiesFirstSeen(t *testing.T) {
	expenses := []domain.Expense{
		expense("e1", "P1", "100", day(2024, time.March, 1), domain.CategoryInsurance, ""),
		expense("e2", "P1", "60", day(2024, time.March, 2), domain.CategoryMortgage, ""),
		expense("e3", "P1", "40", day(2024, time.March, 3), domain.CategoryMortgage, ""),
		expense("e4", "P1", "5", day(2024, time.March, 4), domain.CategoryOther, ""),
	}
	b := CategoryBreakdown(expenses)
	require.Equal(t, 3, b.Len())

	top, ok := b.Top()
	require.True(t, ok)
	assert.Equal(t, string(domain.CategoryInsurance), top.Name)
	assertDecimal(t, "100", top.Amount)

	mortgage, ok := b.Get(string(domain.CategoryMortgage))
	require.True(t, ok)
	assertDecimal(t, "100", mortgage)

	_, ok = NewBreakdown().Top()
	assert.False(t, ok)
}

func TestPaymentsByPropertyLabelsOrphans(t *testing.T) {
	s := Snapshot{
		Properties: []domain.Property{{ID: "P1", Name: "Maple Court"}},
		Tenants:    []domain.Tenant{tenant("T1", "P1", "1000", false)},
	}
	payments := []domain.Payment{
		payment("a", "T1", "1000", day(2024, time.March, 1), domain.StatusCompleted),
		payment("b", "gone", "200", day(2024, time.March, 1), domain.StatusCompleted),
	}
	entries := PaymentsByProperty(NewIndex(s), payments).Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "Maple Court", entries[0].Name)
	assert.Equal(t, UnknownProperty, entries[1].Name)
}
