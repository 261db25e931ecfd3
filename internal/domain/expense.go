package domain

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseCategory is one of a fixed set of expense kinds.
type ExpenseCategory string

const (
	CategoryMortgage        ExpenseCategory = "Mortgage"
	CategoryPropertyTaxes   ExpenseCategory = "Property Taxes"
	CategoryUtilityBills    ExpenseCategory = "Utility Bills"
	CategoryInternetBills   ExpenseCategory = "Internet Bills"
	CategoryHomeImprovement ExpenseCategory = "Home Improvement"
	CategoryMaintenance     ExpenseCategory = "Maintenance"
	CategoryInsurance       ExpenseCategory = "Insurance"
	CategoryOther           ExpenseCategory = "Other"
)

var expenseCategories = []ExpenseCategory{
	CategoryMortgage,
	CategoryPropertyTaxes,
	CategoryUtilityBills,
	CategoryInternetBills,
	CategoryHomeImprovement,
	CategoryMaintenance,
	CategoryInsurance,
	CategoryOther,
}

// ExpenseCategories returns the known categories in display order.
func ExpenseCategories() []ExpenseCategory {
	out := make([]ExpenseCategory, len(expenseCategories))
	copy(out, expenseCategories)
	return out
}

// Valid reports whether c is a known category.
func (c ExpenseCategory) Valid() bool {
	for _, known := range expenseCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Expense is money spent on a property.
type Expense struct {
	ID          string          `json:"id"`
	PropertyID  string          `json:"propertyId"`
	Amount      decimal.Decimal `json:"amount"`
	Date        Date            `json:"date"`
	Category    ExpenseCategory `json:"category"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// RecordDate returns the expense date.
func (e Expense) RecordDate() Date { return e.Date }

// RecordAmount returns the expense amount.
func (e Expense) RecordAmount() decimal.Decimal { return e.Amount }

// Validate checks the user-supplied fields of an expense.
func (e Expense) Validate() error {
	var errs []error
	if strings.TrimSpace(e.PropertyID) == "" {
		errs = append(errs, field("propertyId", ErrMissingReference))
	}
	if !e.Amount.IsPositive() {
		errs = append(errs, field("amount", ErrInvalidAmount))
	}
	if e.Date.IsZero() {
		errs = append(errs, field("date", ErrInvalidDate))
	}
	if !e.Category.Valid() {
		errs = append(errs, field("category", ErrInvalidCategory))
	}
	return validation(errs...)
}

// ExpenseFilter narrows an expense listing at the store.
type ExpenseFilter struct {
	PropertyID string
}

// ExpenseRepository defines data access for expenses
type ExpenseRepository interface {
	Create(ctx context.Context, expense *Expense) error
	GetByID(ctx context.Context, id string) (*Expense, error)
	Update(ctx context.Context, expense *Expense) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ExpenseFilter) ([]Expense, error)
}
