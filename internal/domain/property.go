package domain

import (
	"context"
	"strings"
	"time"
)

// Property is a rental building or unit group.
type Property struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Type      string    `json:"type"`
	Units     int       `json:"units"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate checks the user-supplied fields of a property.
func (p Property) Validate() error {
	var errs []error
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, field("name", ErrEmptyName))
	}
	if p.Units < 0 {
		errs = append(errs, field("units", ErrInvalidUnits))
	}
	return validation(errs...)
}

// PropertyRepository defines data access for properties
type PropertyRepository interface {
	Create(ctx context.Context, property *Property) error
	GetByID(ctx context.Context, id string) (*Property, error)
	Update(ctx context.Context, property *Property) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]Property, error)
}
