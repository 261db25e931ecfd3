package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/waghrental/rentledger/internal/domain"
)

// PostgresExpenseRepository implements domain.ExpenseRepository using PostgreSQL
type PostgresExpenseRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresExpenseRepository creates a new expense repository
func NewPostgresExpenseRepository(db *sql.DB, logger *slog.Logger) *PostgresExpenseRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresExpenseRepository{db: db, logger: logger}
}

const expenseColumns = `id, property_id, amount, date, category, description, created_at, updated_at`

func scanExpense(row interface{ Scan(...any) error }, e *domain.Expense) error {
	return row.Scan(
		&e.ID, &e.PropertyID, &e.Amount, &e.Date, &e.Category, &e.Description,
		&e.CreatedAt, &e.UpdatedAt,
	)
}

// Create records an expense
func (r *PostgresExpenseRepository) Create(ctx context.Context, e *domain.Expense) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	query := `
		INSERT INTO expenses (id, property_id, amount, date, category, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		e.ID, e.PropertyID, e.Amount, e.Date, e.Category, e.Description,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return mapWriteError("expense", err)
	}
	return nil
}

// GetByID retrieves an expense by ID
func (r *PostgresExpenseRepository) GetByID(ctx context.Context, id string) (*domain.Expense, error) {
	e := &domain.Expense{}
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE id = $1`
	if err := scanExpense(r.db.QueryRowContext(ctx, query, id), e); err != nil {
		return nil, mapReadError("expense", err)
	}
	return e, nil
}

// Update overwrites an expense
func (r *PostgresExpenseRepository) Update(ctx context.Context, e *domain.Expense) error {
	if err := checkID("expense", e.ID); err != nil {
		return err
	}
	query := `
		UPDATE expenses
		SET property_id = $1, amount = $2, date = $3, category = $4, description = $5,
		    updated_at = NOW()
		WHERE id = $6
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		e.PropertyID, e.Amount, e.Date, e.Category, e.Description, e.ID,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return mapWriteError("expense", err)
	}
	return nil
}

// Delete removes an expense
func (r *PostgresExpenseRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return mapDeleteError("expense", err)
	}
	return checkAffected("expense", res)
}

// List returns expenses newest first, optionally for one property
func (r *PostgresExpenseRepository) List(ctx context.Context, filter domain.ExpenseFilter) ([]domain.Expense, error) {
	return listExpenses(ctx, r.db, filter)
}

func listExpenses(ctx context.Context, q querier, filter domain.ExpenseFilter) ([]domain.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses`
	var args []any
	if filter.PropertyID != "" {
		query += ` WHERE property_id = $1`
		args = append(args, filter.PropertyID)
	}
	query += ` ORDER BY date DESC, created_at DESC`

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Expense, 0)
	for rows.Next() {
		var e domain.Expense
		if err := scanExpense(rows, &e); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
