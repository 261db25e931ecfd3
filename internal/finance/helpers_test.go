package finance

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/waghrental/rentledger/internal/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(y int, m time.Month, d int) domain.Date {
	return domain.NewDate(y, m, d)
}

func at(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), append([]any{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

func payment(id, tenantID, amount string, date domain.Date, status domain.PaymentStatus) domain.Payment {
	return domain.Payment{ID: id, TenantID: tenantID, Amount: dec(amount), Date: date, Status: status}
}

func expense(id, propertyID, amount string, date domain.Date, category domain.ExpenseCategory, desc string) domain.Expense {
	return domain.Expense{ID: id, PropertyID: propertyID, Amount: dec(amount), Date: date, Category: category, Description: desc}
}

func tenant(id, propertyID, rent string, archived bool) domain.Tenant {
	return domain.Tenant{ID: id, Name: "Tenant " + id, PropertyID: propertyID, RentAmount: dec(rent), IsArchived: archived}
}
