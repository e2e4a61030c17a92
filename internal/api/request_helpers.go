package api

import (
	"log/slog"
	"net/http"

	"github.com/acressity/acressity-api/internal/api/shared"
	"github.com/acressity/acressity-api/internal/domain"
	"github.com/acressity/acressity-api/internal/redact"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// getPathUUID extracts and parses a UUID path parameter.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "is required", domain.ErrValidation)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, "has invalid format", domain.ErrInvalidID)
	}
	return id, nil
}

// handlePathUUID reads a UUID path parameter, writing a 400 on failure.
func handlePathUUID(
	w http.ResponseWriter,
	r *http.Request,
	paramName string,
	log *slog.Logger,
) (uuid.UUID, bool) {
	id, err := getPathUUID(r, paramName)
	if err != nil {
		log.Debug("invalid path parameter",
			slog.String("param_name", paramName),
			slog.String("value", chi.URLParam(r, paramName)))
		HandleAPIError(w, r, err, "")
		return uuid.Nil, false
	}
	return id, true
}

// decodeAndValidate reads the JSON body into dst and runs its validation
// tags. It writes a 400 and returns false on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}, log *slog.Logger) bool {
	if err := shared.DecodeJSON(r, dst); err != nil {
		log.Debug("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return false
	}
	if err := shared.ValidateRequest(dst); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return false
	}
	return true
}

// viewerFrom returns the viewer resolved by the auth middleware.
func viewerFrom(r *http.Request) domain.Viewer {
	return shared.ViewerFromContext(r.Context())
}
