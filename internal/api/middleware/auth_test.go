package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/acressity/acressity-api/internal/api/shared"
	"github.com/acressity/acressity-api/internal/domain"
	"github.com/acressity/acressity-api/internal/mocks"
	"github.com/acressity/acressity-api/internal/service/auth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureViewer records the viewer the middleware placed in the context.
func captureViewer(got *domain.Viewer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = shared.ViewerFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware_Authenticate(t *testing.T) {
	t.Parallel()

	explorerID := uuid.New()

	tests := []struct {
		name           string
		authHeader     string
		validateErr    error
		claims         *auth.Claims
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "valid token",
			authHeader:     "Bearer valid-token",
			claims:         &auth.Claims{ExplorerID: explorerID},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing auth header",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "Authorization header required",
		},
		{
			name:           "invalid auth format",
			authHeader:     "InvalidFormat",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "Invalid authorization format",
		},
		{
			name:           "expired token",
			authHeader:     "Bearer expired-token",
			validateErr:    auth.ErrExpiredToken,
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "Token expired",
		},
		{
			name:           "grant used as access token",
			authHeader:     "Bearer grant-token",
			validateErr:    auth.ErrWrongTokenType,
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "Invalid token",
		},
		{
			name:           "unexpected validation failure",
			authHeader:     "Bearer weird-token",
			validateErr:    errors.New("keystore unavailable"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			jwtService := &mocks.MockJWTService{Claims: tt.claims, ValidateErr: tt.validateErr}
			m := NewAuthMiddleware(jwtService)

			var got domain.Viewer
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()
			m.Authenticate(captureViewer(&got)).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedBody != "" {
				assert.Contains(t, w.Body.String(), tt.expectedBody)
			}
			if tt.expectedStatus == http.StatusOK {
				assert.True(t, got.Is(explorerID))
			}
		})
	}
}

func TestAuthMiddleware_IdentifyAnonymous(t *testing.T) {
	t.Parallel()

	m := NewAuthMiddleware(&mocks.MockJWTService{})
	got := domain.ExplorerViewer(uuid.New())
	w := httptest.NewRecorder()
	m.Identify(captureViewer(&got)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, got.Authenticated())
	assert.Empty(t, got.Grants)
}

func TestAuthMiddleware_Grants(t *testing.T) {
	t.Parallel()

	first, second := uuid.New(), uuid.New()
	grants := map[string]uuid.UUID{"g1": first, "g2": second}
	jwtService := &mocks.MockJWTService{
		ValidateGrantFn: func(_ context.Context, tok string) (*auth.GrantClaims, error) {
			id, ok := grants[tok]
			if !ok {
				return nil, auth.ErrInvalidToken
			}
			return &auth.GrantClaims{ExperienceID: id}, nil
		},
	}
	m := NewAuthMiddleware(jwtService)

	var got domain.Viewer
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Add(GrantHeader, "g1, bogus")
	req.Header.Add(GrantHeader, "g2")
	w := httptest.NewRecorder()
	m.Identify(captureViewer(&got)).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, got.HasGrant(first))
	assert.True(t, got.HasGrant(second))
	assert.Len(t, got.Grants, 2)
	assert.False(t, got.Authenticated())
}
