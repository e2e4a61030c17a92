package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/acressity/acressity-api/internal/store"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes
const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
	checkViolationCode      = "23514"
	notNullViolationCode    = "23502"
)

// uniqueConstraintErrors maps unique constraints to the store error that
// names the conflicting field.
var uniqueConstraintErrors = map[string]error{
	"explorers_email_key":         store.ErrEmailExists,
	"explorers_email_lower_idx":   store.ErrEmailExists,
	"explorers_trailname_key":     store.ErrTrailnameExists,
	"experiences_search_term_key": store.ErrSearchTermExists,
	"experience_comrades_pkey":    store.ErrComradeExists,
	"galleries_owner_unique":      store.ErrDuplicate,
}

// MapError translates database errors into store errors. notFound is
// returned for sql.ErrNoRows; pass nil to use store.ErrNotFound.
// Unmapped errors are wrapped with store.ErrInternal.
func MapError(err error, notFound error) error {
	if err == nil {
		return nil
	}
	if notFound == nil {
		notFound = store.ErrNotFound
	}

	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			if specific, ok := uniqueConstraintErrors[pgErr.ConstraintName]; ok {
				return fmt.Errorf("%w: %v", specific, err)
			}
			return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
		case foreignKeyViolationCode:
			return fmt.Errorf("%w: foreign key violation (%s): %v",
				store.ErrInvalidEntity, pgErr.ConstraintName, err)
		case checkViolationCode:
			return fmt.Errorf("%w: check constraint violation (%s): %v",
				store.ErrInvalidEntity, pgErr.ConstraintName, err)
		case notNullViolationCode:
			return fmt.Errorf("%w: not null violation (%s): %v",
				store.ErrInvalidEntity, pgErr.ColumnName, err)
		}
	}

	if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrDuplicate) ||
		errors.Is(err, store.ErrInvalidEntity) {
		return err
	}
	return fmt.Errorf("%w: %v", store.ErrInternal, err)
}

// IsUniqueViolation checks if the given error is a PostgreSQL unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// CheckRowsAffected returns notFound when result touched no rows.
func CheckRowsAffected(result sql.Result, notFound error) error {
	if result == nil {
		return fmt.Errorf("%w: nil result", store.ErrInternal)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: failed to get rows affected: %v", store.ErrInternal, err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
