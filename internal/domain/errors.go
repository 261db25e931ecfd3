package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrUnknownReference = errors.New("referenced record does not exist")
	ErrInUse            = errors.New("record is still referenced")
	ErrInvalidAmount    = errors.New("amount must be greater than zero")
	ErrNegativeAmount   = errors.New("amount cannot be negative")
	ErrInvalidDate      = errors.New("invalid date")
	ErrEmptyName        = errors.New("name is required")
	ErrMissingReference = errors.New("reference id is required")
	ErrInvalidStatus    = errors.New("invalid payment status")
	ErrInvalidCategory  = errors.New("invalid expense category")
	ErrInvalidUnits     = errors.New("units cannot be negative")
	ErrLeaseRange       = errors.New("lease end must not be before lease start")
	ErrInvalidEmail     = errors.New("invalid email address")
	ErrInvalidMonth     = errors.New("invalid month")
)

// ValidationError reports every problem found on an input record.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func field(name string, err error) error {
	return fmt.Errorf("%s: %w", name, err)
}

func validation(errs ...error) error {
	if err := errors.Join(errs...); err != nil {
		return &ValidationError{Err: err}
	}
	return nil
}
