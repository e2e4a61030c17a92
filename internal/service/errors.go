package service

import (
	"errors"
	"fmt"

	"github.com/acressity/acressity-api/internal/domain"
	"github.com/acressity/acressity-api/internal/store"
)

// Sentinel errors returned by the services. Callers check them with errors.Is;
// the API layer maps them to HTTP status codes.
var (
	// ErrInvalidCredentials indicates a wrong email/password pair or a wrong
	// experience password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrPasswordRequired indicates a private experience that can be opened
	// with its password. It is a permission error.
	ErrPasswordRequired = fmt.Errorf("%w: experience is password protected", domain.ErrPermissionDenied)

	// ErrNotPasswordProtected indicates an unlock attempt on an experience
	// without a password.
	ErrNotPasswordProtected = domain.NewValidationError("password", "This experience is not password protected", nil)
)

// ServiceError wraps unexpected failures with the service and operation that
// produced them.
type ServiceError struct {
	Service   string
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	msg := fmt.Sprintf("%s service %s operation failed", e.Service, e.Operation)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError wraps err with operation context. Expected conditions
// (validation, permission, not found, duplicates, bad credentials) are
// returned unchanged so their messages reach the caller intact.
func NewServiceError(service, operation, message string, err error) error {
	if err == nil {
		return nil
	}
	if isExpected(err) {
		return err
	}
	return &ServiceError{
		Service:   service,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

func isExpected(err error) bool {
	switch {
	case domain.IsValidationError(err),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrPermissionDenied),
		errors.Is(err, domain.ErrUnauthenticated),
		errors.Is(err, domain.ErrConfirmationRequired),
		errors.Is(err, ErrInvalidCredentials),
		store.IsNotFoundError(err),
		store.IsDuplicateError(err):
		return true
	}
	return false
}

func nilDependency(service, name string) error {
	return &ServiceError{
		Service:   service,
		Operation: "create_service",
		Message:   name + " cannot be nil",
	}
}

func isPermission(err error) bool {
	return errors.Is(err, domain.ErrPermissionDenied)
}
