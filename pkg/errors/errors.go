package vendora_errors

import (
	"errors"
	"strings"
)

// Common errors
var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrInvalidInput      = errors.New("invalid input")
	ErrLockTimeout       = errors.New("lock not acquired within bound")
	ErrAlreadyExists     = errors.New("already exists")
	ErrCodeExhausted     = errors.New("product code generation attempts exhausted")
)

// ValidationError carries every violated constraint of a submission so the
// caller sees the full list at once instead of the first failure.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return ErrInvalidInput.Error()
	}
	return strings.Join(e.Violations, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NewValidationError returns nil when no violations were collected.
func NewValidationError(violations []string) error {
	if len(violations) == 0 {
		return nil
	}
	return &ValidationError{Violations: violations}
}
