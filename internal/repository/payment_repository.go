package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/waghrental/rentledger/internal/domain"
)

// PostgresPaymentRepository implements domain.PaymentRepository using PostgreSQL
type PostgresPaymentRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresPaymentRepository creates a new payment repository
func NewPostgresPaymentRepository(db *sql.DB, logger *slog.Logger) *PostgresPaymentRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresPaymentRepository{db: db, logger: logger}
}

const paymentColumns = `id, tenant_id, amount, date, payment_method, status, notes, created_at, updated_at`

func scanPayment(row interface{ Scan(...any) error }, p *domain.Payment) error {
	return row.Scan(
		&p.ID, &p.TenantID, &p.Amount, &p.Date, &p.PaymentMethod, &p.Status, &p.Notes,
		&p.CreatedAt, &p.UpdatedAt,
	)
}

// Create records a payment
func (r *PostgresPaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	query := `
		INSERT INTO payments (id, tenant_id, amount, date, payment_method, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		p.ID, p.TenantID, p.Amount, p.Date, p.PaymentMethod, p.Status, p.Notes,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return mapWriteError("payment", err)
	}
	return nil
}

// GetByID retrieves a payment by ID
func (r *PostgresPaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	p := &domain.Payment{}
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	if err := scanPayment(r.db.QueryRowContext(ctx, query, id), p); err != nil {
		return nil, mapReadError("payment", err)
	}
	return p, nil
}

// Update overwrites a payment
func (r *PostgresPaymentRepository) Update(ctx context.Context, p *domain.Payment) error {
	if err := checkID("payment", p.ID); err != nil {
		return err
	}
	query := `
		UPDATE payments
		SET tenant_id = $1, amount = $2, date = $3, payment_method = $4, status = $5, notes = $6,
		    updated_at = NOW()
		WHERE id = $7
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		p.TenantID, p.Amount, p.Date, p.PaymentMethod, p.Status, p.Notes, p.ID,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return mapWriteError("payment", err)
	}
	return nil
}

// Delete removes a payment
func (r *PostgresPaymentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return mapDeleteError("payment", err)
	}
	return checkAffected("payment", res)
}

// List returns payments newest first, optionally for one tenant
func (r *PostgresPaymentRepository) List(ctx context.Context, filter domain.PaymentFilter) ([]domain.Payment, error) {
	return listPayments(ctx, r.db, filter)
}

func listPayments(ctx context.Context, q querier, filter domain.PaymentFilter) ([]domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments`
	var args []any
	if filter.TenantID != "" {
		query += ` WHERE tenant_id = $1`
		args = append(args, filter.TenantID)
	}
	query += ` ORDER BY date DESC, created_at DESC`

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Payment, 0)
	for rows.Next() {
		var p domain.Payment
		if err := scanPayment(rows, &p); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
