package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waghrental/rentledger/internal/domain"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

var tenantCols = []string{"id", "name", "email", "phone", "property_id", "rent_amount", "lease_start", "lease_end", "is_archived", "created_at", "updated_at"}

func TestTenantCreateAssignsID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresTenantRepository(db, nil)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO tenants")).
		WithArgs(sqlmock.AnyArg(), "Ana", "ana@example.com", "", "P1", sqlmock.AnyArg(), sqlmock.AnyArg(), nil, false).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	tn := &domain.Tenant{
		Name:       "Ana",
		Email:      "ana@example.com",
		PropertyID: "P1",
		RentAmount: decimal.NewFromInt(1500),
		LeaseStart: domain.NewDate(2024, time.January, 1),
	}
	require.NoError(t, repo.Create(context.Background(), tn))
	assert.Len(t, tn.ID, 36)
	assert.Equal(t, now, tn.CreatedAt)
}

func TestTenantCreateUnknownProperty(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresTenantRepository(db, nil)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO tenants")).
		WillReturnError(&pq.Error{Code: "23503", Message: "violates foreign key constraint"})

	err := repo.Create(context.Background(), &domain.Tenant{Name: "Ana", PropertyID: "missing"})
	assert.ErrorIs(t, err, domain.ErrUnknownReference)
}

func TestTenantGetByID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresTenantRepository(db, nil)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM tenants WHERE id = $1")).
		WithArgs("T1").
		WillReturnRows(sqlmock.NewRows(tenantCols).
			AddRow("T1", "Ana", "", "", "P1", []byte("1500.00"), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), nil, false, now, now))

	got, err := repo.GetByID(context.Background(), "T1")
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.Name)
	assert.True(t, decimal.NewFromInt(1500).Equal(got.RentAmount))
	assert.Equal(t, domain.NewDate(2024, time.January, 1), got.LeaseStart)
	assert.True(t, got.LeaseEnd.IsZero())
}

func TestTenantGetByIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresTenantRepository(db, nil)

	mock.ExpectQuery(regexp.QuoteMeta("FROM tenants WHERE id = $1")).
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)
	_, err := repo.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	mock.ExpectQuery(regexp.QuoteMeta("FROM tenants WHERE id = $1")).
		WithArgs("not-a-uuid").
		WillReturnError(&pq.Error{Code: "22P02"})
	_, err = repo.GetByID(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTenantListFilters(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresTenantRepository(db, nil)

	mock.ExpectQuery(regexp.QuoteMeta("FROM tenants WHERE is_archived = FALSE AND property_id = $1 ORDER BY name")).
		WithArgs("P1").
		WillReturnRows(sqlmock.NewRows(tenantCols))
	got, err := repo.List(context.Background(), domain.TenantFilter{PropertyID: "P1"})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)

	mock.ExpectQuery(`FROM tenants ORDER BY name`).
		WillReturnRows(sqlmock.NewRows(tenantCols).
			AddRow("T1", "Ana", "", "", "P1", "900", nil, nil, true, time.Now(), time.Now()))
	got, err = repo.List(context.Background(), domain.TenantFilter{IncludeArchived: true})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].IsArchived)
}

func TestTenantSetArchived(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresTenantRepository(db, nil)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE tenants SET is_archived = $1")).
		WithArgs(true, "T1").
		WillReturnRows(sqlmock.NewRows(tenantCols).
			AddRow("T1", "Ana", "", "", "P1", "900", nil, nil, true, time.Now(), time.Now()))

	got, err := repo.SetArchived(context.Background(), "T1", true)
	require.NoError(t, err)
	assert.True(t, got.IsArchived)
}

func TestTenantDelete(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresTenantRepository(db, nil)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tenants WHERE id = $1")).
		WithArgs("T1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), "T1"))

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tenants WHERE id = $1")).
		WithArgs("T2").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(context.Background(), "T2"), domain.ErrNotFound)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tenants WHERE id = $1")).
		WithArgs("T3").
		WillReturnError(&pq.Error{Code: "23503"})
	assert.ErrorIs(t, repo.Delete(context.Background(), "T3"), domain.ErrInUse)
}
