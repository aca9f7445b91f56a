package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/forge-journal/forge-identity/internal/domain"
)

// MapError converts pgx/pgconn errors to domain errors. id identifies the
// row for the message and may be a user UUID or a history id.
// context.DeadlineExceeded and context.Canceled are NOT mapped; they pass through.
// Anything unrecognised is reported as domain.ErrStorage.
func MapError(err error, entity string, id any) error {
	if err == nil {
		return nil
	}

	// context errors pass through as-is
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %v: %w", entity, id, err)
	}

	// pgx.ErrNoRows → domain.ErrNotFound
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %v: %w", entity, id, domain.ErrNotFound)
	}

	// Already mapped by a lower layer.
	if errors.Is(err, domain.ErrParse) || errors.Is(err, domain.ErrStorage) {
		return fmt.Errorf("%s %v: %w", entity, id, err)
	}

	// PgError codes
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%s %v: %w", entity, id, domain.ErrAlreadyExists)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%s %v: %w", entity, id, domain.ErrNotFound)
		case "23514": // check_violation
			return fmt.Errorf("%s %v: %w", entity, id, domain.ErrValidation)
		}
	}

	return fmt.Errorf("%s %v: %w: %w", entity, id, domain.ErrStorage, err)
}
