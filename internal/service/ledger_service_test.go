package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waghrental/rentledger/internal/domain"
	"github.com/waghrental/rentledger/internal/repository/memory"
)

func newLedger(t *testing.T) (*LedgerService, *memory.Store, *countingCache) {
	t.Helper()
	store := newMemStore()
	cache := newCountingCache()
	return NewLedgerService(repos(store), cache, nil, nil), store, cache
}

func seedProperty(t *testing.T, s *LedgerService, name string) *domain.Property {
	t.Helper()
	p := &domain.Property{Name: name, Units: 2}
	require.NoError(t, s.CreateProperty(context.Background(), p))
	return p
}

func seedTenant(t *testing.T, s *LedgerService, propertyID, name, rent string) *domain.Tenant {
	t.Helper()
	tn := &domain.Tenant{Name: name, PropertyID: propertyID, RentAmount: decimal.RequireFromString(rent)}
	require.NoError(t, s.CreateTenant(context.Background(), tn))
	return tn
}

func TestCreatePaymentAppliesDefaults(t *testing.T) {
	s, _, cache := newLedger(t)
	ctx := context.Background()
	prop := seedProperty(t, s, "Maple Court")
	tn := seedTenant(t, s, prop.ID, "Ana", "1500")
	before := cache.invalidations

	p := &domain.Payment{TenantID: " " + tn.ID + " ", Amount: decimal.RequireFromString("1500.004"), Date: domain.NewDate(2024, time.March, 5)}
	require.NoError(t, s.CreatePayment(ctx, p))

	assert.Equal(t, tn.ID, p.TenantID)
	assert.Equal(t, domain.StatusCompleted, p.Status)
	assert.Equal(t, domain.DefaultPaymentMethod, p.PaymentMethod)
	assert.Equal(t, "1500", p.Amount.String())
	assert.Equal(t, before+1, cache.invalidations)
}

func TestCreatePaymentValidation(t *testing.T) {
	s, _, cache := newLedger(t)
	err := s.CreatePayment(context.Background(), &domain.Payment{TenantID: "t", Amount: decimal.Zero})
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	assert.ErrorIs(t, err, domain.ErrInvalidDate)
	assert.Zero(t, cache.invalidations)
}

func TestCreatePaymentUnknownTenant(t *testing.T) {
	s, _, _ := newLedger(t)
	err := s.CreatePayment(context.Background(), &domain.Payment{
		TenantID: "ghost",
		Amount:   decimal.NewFromInt(10),
		Date:     domain.NewDate(2024, time.March, 5),
	})
	assert.ErrorIs(t, err, domain.ErrUnknownReference)
}

func TestArchiveAndUnarchiveTenant(t *testing.T) {
	s, _, _ := newLedger(t)
	ctx := context.Background()
	prop := seedProperty(t, s, "Maple Court")
	tn := seedTenant(t, s, prop.ID, "Ana", "1500")

	archived, err := s.ArchiveTenant(ctx, tn.ID)
	require.NoError(t, err)
	assert.True(t, archived.IsArchived)

	active, err := s.ListTenants(ctx, domain.TenantFilter{})
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := s.ListTenants(ctx, domain.TenantFilter{IncludeArchived: true})
	require.NoError(t, err)
	assert.Len(t, all, 1)

	// Editing an archived tenant keeps it archived.
	edit := &domain.Tenant{Name: "Ana B", PropertyID: prop.ID, RentAmount: decimal.NewFromInt(1600), IsArchived: false}
	require.NoError(t, s.UpdateTenant(ctx, tn.ID, edit))
	got, err := s.GetTenant(ctx, tn.ID)
	require.NoError(t, err)
	assert.True(t, got.IsArchived)
	assert.Equal(t, "Ana B", got.Name)

	restored, err := s.UnarchiveTenant(ctx, tn.ID)
	require.NoError(t, err)
	assert.False(t, restored.IsArchived)

	_, err = s.ArchiveTenant(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateTenantAlwaysActive(t *testing.T) {
	s, _, _ := newLedger(t)
	prop := seedProperty(t, s, "Maple Court")
	tn := &domain.Tenant{Name: "Ana", PropertyID: prop.ID, RentAmount: decimal.RequireFromString("999.999"), IsArchived: true}
	require.NoError(t, s.CreateTenant(context.Background(), tn))
	assert.False(t, tn.IsArchived)
	assert.Equal(t, "1000", tn.RentAmount.String())
}

func TestDeletePropertyInUse(t *testing.T) {
	s, _, _ := newLedger(t)
	ctx := context.Background()
	prop := seedProperty(t, s, "Maple Court")
	seedTenant(t, s, prop.ID, "Ana", "1500")

	assert.ErrorIs(t, s.DeleteProperty(ctx, prop.ID), domain.ErrInUse)

	empty := seedProperty(t, s, "Oak House")
	require.NoError(t, s.DeleteProperty(ctx, empty.ID))
	assert.ErrorIs(t, s.DeleteProperty(ctx, empty.ID), domain.ErrNotFound)
}

func TestGetPropertyDetail(t *testing.T) {
	s, _, _ := newLedger(t)
	ctx := context.Background()
	prop := seedProperty(t, s, "Maple Court")
	other := seedProperty(t, s, "Oak House")
	tn := seedTenant(t, s, prop.ID, "Ana", "1500")
	seedTenant(t, s, other.ID, "Ben", "900")
	_, err := s.ArchiveTenant(ctx, tn.ID)
	require.NoError(t, err)

	require.NoError(t, s.CreateExpense(ctx, &domain.Expense{
		PropertyID: prop.ID,
		Amount:     decimal.NewFromInt(120),
		Date:       domain.NewDate(2024, time.March, 3),
		Category:   domain.CategoryMaintenance,
	}))

	detail, err := s.GetProperty(ctx, prop.ID)
	require.NoError(t, err)
	assert.Equal(t, "Maple Court", detail.Name)
	require.Len(t, detail.Tenants, 1, "archived tenants are part of the property history")
	assert.Len(t, detail.Expenses, 1)

	_, err = s.GetProperty(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExpenseLifecycle(t *testing.T) {
	s, _, _ := newLedger(t)
	ctx := context.Background()
	prop := seedProperty(t, s, "Maple Court")

	e := &domain.Expense{PropertyID: prop.ID, Amount: decimal.NewFromInt(80), Date: domain.NewDate(2024, time.March, 3), Category: "Snacks"}
	assert.ErrorIs(t, s.CreateExpense(ctx, e), domain.ErrInvalidCategory)

	e.Category = domain.CategoryUtilityBills
	e.Description = "  Water bill  "
	require.NoError(t, s.CreateExpense(ctx, e))
	assert.Equal(t, "Water bill", e.Description)

	e.Amount = decimal.NewFromInt(95)
	require.NoError(t, s.UpdateExpense(ctx, e.ID, e))
	got, err := s.GetExpense(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "95", got.Amount.String())

	require.NoError(t, s.DeleteExpense(ctx, e.ID))
	_, err = s.GetExpense(ctx, e.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdatePaymentKeepsExplicitStatus(t *testing.T) {
	s, _, _ := newLedger(t)
	ctx := context.Background()
	prop := seedProperty(t, s, "Maple Court")
	tn := seedTenant(t, s, prop.ID, "Ana", "1500")

	p := &domain.Payment{TenantID: tn.ID, Amount: decimal.NewFromInt(700), Date: domain.NewDate(2024, time.March, 1), Status: domain.StatusPending}
	require.NoError(t, s.CreatePayment(ctx, p))

	p.Status = domain.StatusPartial
	require.NoError(t, s.UpdatePayment(ctx, p.ID, p))
	got, err := s.GetPayment(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPartial, got.Status)

	require.NoError(t, s.DeletePayment(ctx, p.ID))
	assert.ErrorIs(t, s.DeletePayment(ctx, p.ID), domain.ErrNotFound)
}
