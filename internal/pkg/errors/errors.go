package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrConflict is a generic sentinel for uniqueness violations.
	ErrConflict = errors.New("conflict")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrTranslation is a generic sentinel for external translation failures.
	ErrTranslation = errors.New("translation failed")
)

// NotFoundError identifies an unresolvable entity id. Not recoverable by the
// caller; the operation that produced it aborts.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s: not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ConflictError identifies an attempt to write a second active link for the
// same source question version. Recoverable: supersede first, then retry.
type ConflictError struct {
	Detail string
	Cause  error
}

func (e *ConflictError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("conflict: %s: %v", e.Detail, e.Cause)
	}
	return fmt.Sprintf("conflict: %s", e.Detail)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// TranslationError wraps a failure of the external translation capability.
// The adapter never retries; the caller decides retry/skip/abort.
type TranslationError struct {
	Detail string
	Cause  error
}

func (e *TranslationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("translation: %s: %v", e.Detail, e.Cause)
	}
	return fmt.Sprintf("translation: %s", e.Detail)
}

func (e *TranslationError) Unwrap() error { return ErrTranslation }
