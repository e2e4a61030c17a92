package api

import (
	"log/slog"
	"net/http"

	"github.com/acressity/acressity-api/internal/api/shared"
	"github.com/acressity/acressity-api/internal/domain"
	"github.com/acressity/acressity-api/internal/platform/logger"
	"github.com/acressity/acressity-api/internal/service"
	"github.com/acressity/acressity-api/internal/service/auth"
)

// AuthHandler handles registration, login and password changes.
type AuthHandler struct {
	explorers  service.ExplorerService
	jwtService auth.JWTService
	logger     *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	explorers service.ExplorerService,
	jwtService auth.JWTService,
	log *slog.Logger,
) *AuthHandler {
	if log == nil {
		log = slog.Default()
	}
	return &AuthHandler{
		explorers:  explorers,
		jwtService: jwtService,
		logger:     log.With(slog.String("component", "auth_handler")),
	}
}

// Register handles POST /auth/register. The new explorer is signed in.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req RegisterRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	explorer, err := h.explorers.Register(r.Context(), service.RegisterInput{
		Email:     req.Email,
		Trailname: req.Trailname,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password1: req.Password1,
		Password2: req.Password2,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create explorer")
		return
	}

	h.respondWithToken(w, r, explorer, http.StatusCreated)
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req LoginRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	explorer, err := h.explorers.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to authenticate explorer")
		return
	}

	h.respondWithToken(w, r, explorer, http.StatusOK)
}

// ChangePassword handles PUT /auth/password.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req ChangePasswordRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	viewer := viewerFrom(r)
	err := h.explorers.ChangePassword(r.Context(), viewer, req.OldPassword, req.NewPassword1, req.NewPassword2)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to change password")
		return
	}

	log.Info("password changed", slog.String("explorer_id", viewer.ExplorerID.String()))
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, r *http.Request, explorer *domain.Explorer, status int) {
	token, err := h.jwtService.GenerateToken(r.Context(), explorer.ID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to generate authentication token", err)
		return
	}
	shared.RespondWithJSON(w, r, status, AuthResponse{
		ExplorerID:  explorer.ID,
		Trailname:   explorer.Trailname,
		AccessToken: token,
	})
}
