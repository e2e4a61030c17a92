package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/acressity/acressity-api/internal/api/shared"
	"github.com/acressity/acressity-api/internal/domain"
	"github.com/acressity/acressity-api/internal/service"
	"github.com/acressity/acressity-api/internal/service/auth"
	"github.com/acressity/acressity-api/internal/store"
	"github.com/go-playground/validator/v10"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// leaking internal error types to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK

	// Authentication errors
	case errors.Is(err, domain.ErrUnauthenticated),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, domain.ErrPermissionDenied):
		return http.StatusForbidden

	case store.IsNotFoundError(err):
		return http.StatusNotFound

	case store.IsDuplicateError(err):
		return http.StatusConflict

	// Bad request errors
	case domain.IsValidationError(err),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrConfirmationRequired),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a user-facing message for err. Validation
// messages are already written for users and pass through unchanged.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid token"
	case errors.Is(err, service.ErrInvalidCredentials):
		return "Invalid credentials"
	case errors.Is(err, domain.ErrUnauthenticated):
		return "You must be signed in to do that"

	case errors.Is(err, service.ErrPasswordRequired):
		return "This experience is password protected"
	case errors.Is(err, domain.ErrPermissionDenied):
		return "You do not have permission to do that"

	case errors.Is(err, store.ErrExplorerNotFound):
		return "Explorer not found"
	case errors.Is(err, store.ErrExperienceNotFound):
		return "Experience not found"
	case errors.Is(err, store.ErrNarrativeNotFound):
		return "Narrative not found"
	case errors.Is(err, store.ErrGalleryNotFound):
		return "Gallery not found"
	case errors.Is(err, store.ErrFeaturedNotFound):
		return "No featured experience"
	case errors.Is(err, store.ErrComradeNotFound):
		return "Explorer is not a comrade of this experience"
	case store.IsNotFoundError(err):
		return "Not found"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"
	case errors.Is(err, store.ErrTrailnameExists):
		return "That trailname is taken"
	case errors.Is(err, store.ErrSearchTermExists):
		return "That search term is taken"
	case errors.Is(err, store.ErrComradeExists):
		return "Explorer is already a comrade"
	case store.IsDuplicateError(err):
		return "Already exists"

	case errors.Is(err, domain.ErrConfirmationRequired):
		return "Deletion must be confirmed with confirm=true"
	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid ID"
	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the response for err. fallback replaces the generic
// message on 500s when non-empty. Permission failures are logged at WARN.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" {
		message = fallback
	}

	var opts []shared.ResponseOption
	if errors.Is(err, domain.ErrPermissionDenied) {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	var ve *domain.ValidationError
	if errors.As(err, &ve) && ve.Field != "" {
		opts = append(opts, shared.WithField(ve.Field))
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}

// SanitizeValidationError turns a validator error into a short message
// naming the first failing field.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Validation error"
	}
	fe := verrs[0]
	return fmt.Sprintf("Invalid %s: %s", strings.ToLower(fe.Field()), getValidationTagMessage(fe.Tag()))
}

func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
