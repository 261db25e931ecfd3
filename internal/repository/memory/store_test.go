package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waghrental/rentledger/internal/domain"
)

func TestForeignKeys(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	err := s.Tenants().Create(ctx, &domain.Tenant{Name: "Ana", PropertyID: "missing"})
	assert.ErrorIs(t, err, domain.ErrUnknownReference)

	prop := &domain.Property{Name: "Maple Court"}
	require.NoError(t, s.Properties().Create(ctx, prop))
	tn := &domain.Tenant{Name: "Ana", PropertyID: prop.ID, RentAmount: decimal.NewFromInt(1500)}
	require.NoError(t, s.Tenants().Create(ctx, tn))

	err = s.Payments().Create(ctx, &domain.Payment{TenantID: "missing"})
	assert.ErrorIs(t, err, domain.ErrUnknownReference)
	require.NoError(t, s.Payments().Create(ctx, &domain.Payment{TenantID: tn.ID, Amount: decimal.NewFromInt(1500), Date: domain.NewDate(2024, time.March, 5)}))

	assert.ErrorIs(t, s.Properties().Delete(ctx, prop.ID), domain.ErrInUse)
	assert.ErrorIs(t, s.Tenants().Delete(ctx, tn.ID), domain.ErrInUse)
	assert.ErrorIs(t, s.Expenses().Delete(ctx, "missing"), domain.ErrNotFound)
}

func TestTenantUpdateKeepsArchivedFlag(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	prop := &domain.Property{Name: "Maple Court"}
	require.NoError(t, s.Properties().Create(ctx, prop))
	tn := &domain.Tenant{Name: "Ana", PropertyID: prop.ID}
	require.NoError(t, s.Tenants().Create(ctx, tn))

	_, err := s.Tenants().SetArchived(ctx, tn.ID, true)
	require.NoError(t, err)

	tn.Name = "Ana B"
	tn.IsArchived = false
	require.NoError(t, s.Tenants().Update(ctx, tn))
	assert.True(t, tn.IsArchived)

	active, err := s.Tenants().List(ctx, domain.TenantFilter{})
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestLoadOrdersNewestFirst(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	prop := &domain.Property{Name: "Maple Court"}
	require.NoError(t, s.Properties().Create(ctx, prop))
	for _, day := range []int{3, 20, 11} {
		require.NoError(t, s.Expenses().Create(ctx, &domain.Expense{
			PropertyID: prop.ID,
			Amount:     decimal.NewFromInt(int64(day)),
			Date:       domain.NewDate(2024, time.March, day),
			Category:   domain.CategoryOther,
		}))
	}

	snap, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Expenses, 3)
	assert.Equal(t, 20, snap.Expenses[0].Date.Day())
	assert.Equal(t, 3, snap.Expenses[2].Date.Day())
	assert.Equal(t, 1, s.Loads())
}
