package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/waghrental/rentledger/internal/domain"
)

// PostgresTenantRepository implements domain.TenantRepository using PostgreSQL
type PostgresTenantRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresTenantRepository creates a new tenant repository
func NewPostgresTenantRepository(db *sql.DB, logger *slog.Logger) *PostgresTenantRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresTenantRepository{db: db, logger: logger}
}

const tenantColumns = `id, name, email, phone, property_id, rent_amount, lease_start, lease_end, is_archived, created_at, updated_at`

func scanTenant(row interface{ Scan(...any) error }, t *domain.Tenant) error {
	return row.Scan(
		&t.ID, &t.Name, &t.Email, &t.Phone, &t.PropertyID, &t.RentAmount,
		&t.LeaseStart, &t.LeaseEnd, &t.IsArchived, &t.CreatedAt, &t.UpdatedAt,
	)
}

// Create creates a new tenant
func (r *PostgresTenantRepository) Create(ctx context.Context, t *domain.Tenant) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	query := `
		INSERT INTO tenants (id, name, email, phone, property_id, rent_amount, lease_start, lease_end, is_archived)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		t.ID, t.Name, t.Email, t.Phone, t.PropertyID, t.RentAmount, t.LeaseStart, t.LeaseEnd, t.IsArchived,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return mapWriteError("tenant", err)
	}
	return nil
}

// GetByID retrieves a tenant by ID
func (r *PostgresTenantRepository) GetByID(ctx context.Context, id string) (*domain.Tenant, error) {
	t := &domain.Tenant{}
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE id = $1`
	if err := scanTenant(r.db.QueryRowContext(ctx, query, id), t); err != nil {
		return nil, mapReadError("tenant", err)
	}
	return t, nil
}

// Update overwrites the editable fields of a tenant. The archived flag is
// only changed through SetArchived.
func (r *PostgresTenantRepository) Update(ctx context.Context, t *domain.Tenant) error {
	if err := checkID("tenant", t.ID); err != nil {
		return err
	}
	query := `
		UPDATE tenants
		SET name = $1, email = $2, phone = $3, property_id = $4, rent_amount = $5,
		    lease_start = $6, lease_end = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING is_archived, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		t.Name, t.Email, t.Phone, t.PropertyID, t.RentAmount, t.LeaseStart, t.LeaseEnd, t.ID,
	).Scan(&t.IsArchived, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return mapWriteError("tenant", err)
	}
	return nil
}

// SetArchived flips a tenant between active and archived
func (r *PostgresTenantRepository) SetArchived(ctx context.Context, id string, archived bool) (*domain.Tenant, error) {
	t := &domain.Tenant{}
	query := `
		UPDATE tenants SET is_archived = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + tenantColumns
	if err := scanTenant(r.db.QueryRowContext(ctx, query, archived, id), t); err != nil {
		return nil, mapReadError("tenant", err)
	}
	r.logger.Info("tenant archive state changed",
		slog.String("tenant_id", id),
		slog.Bool("archived", archived),
	)
	return t, nil
}

// Delete removes a tenant. Tenants with payments must be archived instead.
func (r *PostgresTenantRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tenants WHERE id = $1`, id)
	if err != nil {
		return mapDeleteError("tenant", err)
	}
	return checkAffected("tenant", res)
}

// List returns tenants ordered by name. Archived tenants are included only
// when the filter asks for them.
func (r *PostgresTenantRepository) List(ctx context.Context, filter domain.TenantFilter) ([]domain.Tenant, error) {
	return listTenants(ctx, r.db, filter)
}

func listTenants(ctx context.Context, q querier, filter domain.TenantFilter) ([]domain.Tenant, error) {
	var (
		where []string
		args  []any
	)
	if !filter.IncludeArchived {
		where = append(where, "is_archived = FALSE")
	}
	if filter.PropertyID != "" {
		args = append(args, filter.PropertyID)
		where = append(where, fmt.Sprintf("property_id = $%d", len(args)))
	}

	query := `SELECT ` + tenantColumns + ` FROM tenants`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY name, created_at`

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Tenant, 0)
	for rows.Next() {
		var t domain.Tenant
		if err := scanTenant(rows, &t); err != nil {
			return nil, fmt.Errorf("failed to scan tenant: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
