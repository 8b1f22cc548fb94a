package repositories

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"scaffold-backend/internal/rental"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
	checkViolation      = "23514"
)

// translate maps pgx errors onto the engine's error classes. Missing rows
// become NotFound. Unique violations and deletes blocked by a reference
// become Conflict. A reference to a missing row or a failed CHECK is a
// validation error.
// Everything else is an ExternalError.
func translate(op, entity string, id int, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return rental.NewNotFound(entity, id)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return rental.Conflict(pgErr.ColumnName, "%s already exists (%s)", entity, pgErr.ConstraintName)
	}
	if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
		if strings.Contains(pgErr.Detail, "is still referenced") {
			return rental.Conflict(pgErr.ColumnName, "%s %d is still in use (%s)", entity, id, pgErr.ConstraintName)
		}
		field := pgErr.ColumnName
		if field == "" {
			field = pgErr.ConstraintName
		}
		return &rental.ValidationError{Field: field, Message: "references a record that does not exist", Err: rental.ErrNotFound}
	}
	if errors.As(err, &pgErr) && pgErr.Code == checkViolation {
		return &rental.ValidationError{Field: pgErr.ConstraintName, Message: "violates " + pgErr.ConstraintName}
	}
	// Errors already classified by a callback pass through unchanged
	if rental.IsValidation(err) || rental.IsInvariant(err) || errors.Is(err, rental.ErrNotFound) {
		return err
	}
	return rental.External(op, err)
}
