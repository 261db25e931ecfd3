package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/waghrental/rentledger/internal/domain"
	"github.com/waghrental/rentledger/internal/finance"
)

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// PostgresSnapshotRepository loads all four collections inside one
// read-only repeatable-read transaction, so a payment never references a
// tenant the same snapshot cannot see.
type PostgresSnapshotRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresSnapshotRepository creates a snapshot loader
func NewPostgresSnapshotRepository(db *sql.DB, logger *slog.Logger) *PostgresSnapshotRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresSnapshotRepository{db: db, logger: logger}
}

// Load reads every property, tenant (archived included), payment and expense.
func (r *PostgresSnapshotRepository) Load(ctx context.Context) (finance.Snapshot, error) {
	start := time.Now()
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return finance.Snapshot{}, fmt.Errorf("failed to begin snapshot: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var s finance.Snapshot
	if s.Properties, err = listProperties(ctx, tx); err != nil {
		return finance.Snapshot{}, err
	}
	if s.Tenants, err = listTenants(ctx, tx, domain.TenantFilter{IncludeArchived: true}); err != nil {
		return finance.Snapshot{}, err
	}
	if s.Payments, err = listPayments(ctx, tx, domain.PaymentFilter{}); err != nil {
		return finance.Snapshot{}, err
	}
	if s.Expenses, err = listExpenses(ctx, tx, domain.ExpenseFilter{}); err != nil {
		return finance.Snapshot{}, err
	}
	if err := tx.Commit(); err != nil {
		return finance.Snapshot{}, fmt.Errorf("failed to finish snapshot: %w", err)
	}

	r.logger.Debug("snapshot loaded",
		slog.Int("properties", len(s.Properties)),
		slog.Int("tenants", len(s.Tenants)),
		slog.Int("payments", len(s.Payments)),
		slog.Int("expenses", len(s.Expenses)),
		slog.Duration("took", time.Since(start)),
	)
	return s, nil
}
