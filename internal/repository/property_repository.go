package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/waghrental/rentledger/internal/domain"
)

// PostgresPropertyRepository implements domain.PropertyRepository using PostgreSQL
type PostgresPropertyRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresPropertyRepository creates a new property repository
func NewPostgresPropertyRepository(db *sql.DB, logger *slog.Logger) *PostgresPropertyRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresPropertyRepository{db: db, logger: logger}
}

const propertyColumns = `id, name, address, type, units, created_at, updated_at`

func scanProperty(row interface{ Scan(...any) error }, p *domain.Property) error {
	return row.Scan(&p.ID, &p.Name, &p.Address, &p.Type, &p.Units, &p.CreatedAt, &p.UpdatedAt)
}

// Create inserts a property, assigning an id when none is set.
func (r *PostgresPropertyRepository) Create(ctx context.Context, p *domain.Property) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	query := `
		INSERT INTO properties (id, name, address, type, units)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, p.ID, p.Name, p.Address, p.Type, p.Units).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return mapWriteError("property", err)
	}
	return nil
}

// GetByID retrieves a property by ID
func (r *PostgresPropertyRepository) GetByID(ctx context.Context, id string) (*domain.Property, error) {
	p := &domain.Property{}
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE id = $1`
	if err := scanProperty(r.db.QueryRowContext(ctx, query, id), p); err != nil {
		return nil, mapReadError("property", err)
	}
	return p, nil
}

// Update overwrites the editable fields of a property
func (r *PostgresPropertyRepository) Update(ctx context.Context, p *domain.Property) error {
	if err := checkID("property", p.ID); err != nil {
		return err
	}
	query := `
		UPDATE properties
		SET name = $1, address = $2, type = $3, units = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, p.Name, p.Address, p.Type, p.Units, p.ID).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return mapWriteError("property", err)
	}
	return nil
}

// Delete removes a property. It fails with domain.ErrInUse while tenants or
// expenses still reference it.
func (r *PostgresPropertyRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM properties WHERE id = $1`, id)
	if err != nil {
		return mapDeleteError("property", err)
	}
	return checkAffected("property", res)
}

// List returns all properties ordered by name
func (r *PostgresPropertyRepository) List(ctx context.Context) ([]domain.Property, error) {
	return listProperties(ctx, r.db)
}

func listProperties(ctx context.Context, q querier) ([]domain.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties ORDER BY name, created_at`
	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Property, 0)
	for rows.Next() {
		var p domain.Property
		if err := scanProperty(rows, &p); err != nil {
			return nil, fmt.Errorf("failed to scan property: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
