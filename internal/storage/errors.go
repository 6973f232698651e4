package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an id references a nonexistent row.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned when a unique constraint is violated.
	ErrConflict = errors.New("conflict")

	// ErrInvalidState is returned when a status transition is requested from
	// a state that does not permit it.
	ErrInvalidState = errors.New("invalid state")

	// ErrValidation is returned for malformed input caught before it reaches
	// the underlying store.
	ErrValidation = errors.New("validation failure")

	// ErrBackendUnavailable is returned when the relational engine failed to
	// initialize. Callers fall back rather than crash.
	ErrBackendUnavailable = errors.New("storage backend unavailable")

	// ErrRawUnsupported is returned by the memory backend for the raw SQL
	// escape hatches, which only the relational backend supports.
	ErrRawUnsupported = errors.New("raw queries unsupported by this backend")
)

// ConflictError wraps ErrConflict with the table and constraint that failed.
type ConflictError struct {
	Table      string
	Constraint string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict on %s (%s)", e.Table, e.Constraint)
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// ValidationError wraps ErrValidation with the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// InvalidStateError wraps ErrInvalidState with the transition that was refused.
type InvalidStateError struct {
	From string
	To   string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("illegal status transition %s -> %s", e.From, e.To)
}

func (e *InvalidStateError) Unwrap() error {
	return ErrInvalidState
}
