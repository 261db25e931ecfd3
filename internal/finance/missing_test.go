package finance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waghrental/rentledger/internal/domain"
)

func TestMissingPaymentsScenario(t *testing.T) {
	tenants := []domain.Tenant{tenant("T1", "P1", "1500", false)}
	payments := []domain.Payment{payment("pay1", "T1", "1500", day(2024, time.March, 5), domain.StatusCompleted)}
	properties := []domain.Property{{ID: "P1", Name: "Maple Court"}}

	apr, err := ParseMonthKey("2024-04")
	require.NoError(t, err)

	missing := MissingPayments(apr, tenants, payments, properties)
	require.Len(t, missing, 1)
	assert.Equal(t, "T1", missing[0].Tenant.ID)
	assertDecimal(t, "1500", missing[0].ExpectedAmount)
	require.NotNil(t, missing[0].Property)
	assert.Equal(t, "Maple Court", missing[0].PropertyName)

	mar := MonthKey{Year: 2024, Month: time.March}
	assert.Empty(t, MissingPayments(mar, tenants, payments, properties))
}

func TestMissingPaymentsSkipsArchived(t *testing.T) {
	tenants := []domain.Tenant{
		tenant("T1", "P1", "1000", true),
		tenant("T2", "P1", "800", false),
	}
	missing := MissingPayments(MonthKey{Year: 2024, Month: time.May}, tenants, nil, nil)
	require.Len(t, missing, 1)
	assert.Equal(t, "T2", missing[0].Tenant.ID)
	assert.Nil(t, missing[0].Property)
	assert.Equal(t, UnknownProperty, missing[0].PropertyName)
}

func TestMissingPaymentsAnyPaymentCounts(t *testing.T) {
	tenants := []domain.Tenant{
		tenant("T1", "P1", "1000", false),
		tenant("T2", "P1", "1000", false),
		tenant("T3", "P1", "1000", false),
	}
	may := day(2024, time.May, 10)
	payments := []domain.Payment{
		payment("a", "T1", "1", may, domain.StatusPending),
		payment("b", "T1", "5", may, domain.StatusPartial),
		payment("c", "T2", "1000", may, domain.StatusLate),
		payment("d", "T3", "1000", day(2024, time.June, 1), domain.StatusCompleted),
	}
	missing := MissingPayments(MonthKey{Year: 2024, Month: time.May}, tenants, payments, nil)
	require.Len(t, missing, 1)
	assert.Equal(t, "T3", missing[0].Tenant.ID)
	assertDecimal(t, "1000", MissingTotal(missing))
}

func TestMissingPaymentsEmpty(t *testing.T) {
	assert.Empty(t, MissingPayments(MonthKey{Year: 2024, Month: time.May}, nil, nil, nil))
}
