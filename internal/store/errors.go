package store

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a unique constraint is violated. Use
// errors.Is to test for it; the concrete error carries the
// constraint-specific message.
var ErrConflict = errors.New("conflict")

// ConflictError reports a duplicate unique key with a client-facing
// message. errors.Is(err, ErrConflict) matches it.
type ConflictError struct {
	Constraint string
	Message    string
}

func (e *ConflictError) Error() string { return e.Message }

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// ValidationError reports a rejected filter, sort, or pagination value.
// It is produced before any query is issued.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Field + ": " + e.Message }

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Messages keyed by the unique constraint that fired. Constraint names
// are pinned in the migrations so this mapping stays stable.
var conflictMessages = map[string]string{
	"users_email_key":   "email already exists",
	"projects_slug_key": "slug already exists",
	"skills_name_key":   "skill name already exists",
}

// translate maps driver-level failures onto the store's error
// vocabulary: missing rows to ErrNotFound, unique violations to
// ConflictError, and broken foreign keys (a referenced row vanished) to
// ErrNotFound. Anything else passes through unclassified.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pgUniqueViolation:
			message := conflictMessages[pqErr.Constraint]
			if message == "" {
				message = "duplicate value"
			}
			return &ConflictError{Constraint: pqErr.Constraint, Message: message}
		case pgForeignKeyViolation:
			return ErrNotFound
		}
	}
	return err
}
