package auth

import (
	"testing"

	"github.com/acressity/acressity-api/internal/config"
	"github.com/stretchr/testify/require"
)

// DefaultTestAuthConfig returns auth settings suitable for tests.
func DefaultTestAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:            "test-jwt-secret-that-is-32-chars-long",
		TokenLifetimeMinutes: 60,
		GrantLifetimeMinutes: 120,
		MinPasswordLength:    6,
		BCryptCost:           4,
	}
}

// RequireTestJWTService creates a JWT service from DefaultTestAuthConfig.
func RequireTestJWTService(t *testing.T) JWTService {
	t.Helper()
	svc, err := NewJWTService(DefaultTestAuthConfig())
	require.NoError(t, err, "failed to create test JWT service")
	return svc
}
