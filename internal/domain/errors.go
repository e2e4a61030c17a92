package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity or user input fails validation.
	// It is usually wrapped by a ValidationError carrying the offending field.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or missing.
	ErrInvalidID = errors.New("invalid ID")

	// ErrPermissionDenied is returned when the viewer lacks the rights
	// for the requested read or mutation.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrUnauthenticated is returned when an operation requires a signed-in explorer.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrConfirmationRequired is returned when a destructive operation
	// was requested without explicit confirmation.
	ErrConfirmationRequired = errors.New("confirmation required")
)

// ValidationError reports a field-scoped validation failure. Message is safe
// to show to the user.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a ValidationError. A nil err defaults to ErrValidation.
func NewValidationError(field, message string, err error) *ValidationError {
	if err == nil {
		err = ErrValidation
	}
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}

// IsValidationError reports whether err is, or wraps, a validation failure.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve) || errors.Is(err, ErrValidation)
}
