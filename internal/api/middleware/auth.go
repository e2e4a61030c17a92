package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/acressity/acressity-api/internal/api/shared"
	"github.com/acressity/acressity-api/internal/domain"
	"github.com/acressity/acressity-api/internal/platform/logger"
	"github.com/acressity/acressity-api/internal/service/auth"
)

// GrantHeader carries experience grants issued by the unlock endpoint.
// Several grants may be sent as repeated headers or comma-separated.
const GrantHeader = "X-Experience-Grant"

// AuthMiddleware resolves the request's viewer from bearer tokens and
// experience grants.
type AuthMiddleware struct {
	jwtService auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(jwtService auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
	}
}

// Identify stores the viewer in the request context. Anonymous requests pass
// through; a malformed or invalid bearer token is rejected. Invalid grants
// are ignored.
func (m *AuthMiddleware) Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		viewer, ok := m.resolve(w, r)
		if !ok {
			return
		}
		next.ServeHTTP(w, r.WithContext(shared.WithViewer(r.Context(), viewer)))
	})
}

// Authenticate behaves like Identify but requires a signed-in explorer.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		viewer, ok := m.resolve(w, r)
		if !ok {
			return
		}
		if !viewer.Authenticated() {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
			return
		}
		next.ServeHTTP(w, r.WithContext(shared.WithViewer(r.Context(), viewer)))
	})
}

// resolve builds the viewer, writing a 401 and returning false when the
// bearer token is unusable.
func (m *AuthMiddleware) resolve(w http.ResponseWriter, r *http.Request) (domain.Viewer, bool) {
	viewer := domain.Anonymous()

	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.Split(header, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid authorization format")
			return viewer, false
		}
		claims, err := m.jwtService.ValidateToken(r.Context(), parts[1])
		if err != nil {
			respondTokenError(w, r, err)
			return viewer, false
		}
		viewer = domain.ExplorerViewer(claims.ExplorerID)
	}

	log := logger.FromContext(r.Context())
	for _, value := range r.Header.Values(GrantHeader) {
		for _, token := range strings.Split(value, ",") {
			token = strings.TrimSpace(token)
			if token == "" {
				continue
			}
			grant, err := m.jwtService.ValidateGrant(r.Context(), token)
			if err != nil {
				log.Debug("ignoring invalid experience grant", "error", err)
				continue
			}
			viewer = viewer.WithGrant(grant.ExperienceID)
		}
	}
	return viewer, true
}

func respondTokenError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Token expired")
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrMissingToken):
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
	default:
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Authentication error", err)
	}
}
