package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/waghrental/rentledger/internal/domain"
)

const (
	pqForeignKeyViolation = "23503"
	pqInvalidTextRep      = "22P02"
)

// checkID rejects a record id that cannot name any row. Update uses it so a
// malformed id in the path reads as not found, leaving 22P02 on the write
// itself to mean a malformed reference in the body.
func checkID(entity, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%s: %w", entity, domain.ErrNotFound)
	}
	return nil
}

// mapWriteError turns a driver error from INSERT/UPDATE into a domain error.
// On a write the only user-supplied uuid left for the driver to reject is a
// foreign key.
func mapWriteError(entity string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqForeignKeyViolation, pqInvalidTextRep:
			return fmt.Errorf("%s: %w", entity, domain.ErrUnknownReference)
		}
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", entity, domain.ErrNotFound)
	}
	return fmt.Errorf("failed to save %s: %w", entity, err)
}

// mapReadError turns a driver error from a lookup by id into a domain error.
// A malformed uuid cannot match any row.
func mapReadError(entity string, err error) error {
	var pqErr *pq.Error
	if errors.Is(err, sql.ErrNoRows) || (errors.As(err, &pqErr) && pqErr.Code == pqInvalidTextRep) {
		return fmt.Errorf("%s: %w", entity, domain.ErrNotFound)
	}
	return fmt.Errorf("failed to get %s: %w", entity, err)
}

// mapDeleteError reports rows still pointing at the record as ErrInUse.
func mapDeleteError(entity string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqForeignKeyViolation:
			return fmt.Errorf("%s: %w", entity, domain.ErrInUse)
		case pqInvalidTextRep:
			return fmt.Errorf("%s: %w", entity, domain.ErrNotFound)
		}
	}
	return fmt.Errorf("failed to delete %s: %w", entity, err)
}

func checkAffected(entity string, res sql.Result) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", entity, domain.ErrNotFound)
	}
	return nil
}
