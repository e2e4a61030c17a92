package mocks

import (
	"context"
	"time"

	"github.com/acressity/acressity-api/internal/service/auth"
	"github.com/google/uuid"
)

// MockJWTService implements auth.JWTService for testing
type MockJWTService struct {
	GenerateTokenFn func(ctx context.Context, explorerID uuid.UUID) (string, error)
	ValidateTokenFn func(ctx context.Context, tokenString string) (*auth.Claims, error)
	GenerateGrantFn func(ctx context.Context, experienceID uuid.UUID) (string, time.Time, error)
	ValidateGrantFn func(ctx context.Context, tokenString string) (*auth.GrantClaims, error)

	// Default values used when functions aren't explicitly defined
	Token       string
	Grant       string
	ExpiresAt   time.Time
	Err         error
	ValidateErr error
	Claims      *auth.Claims
	GrantClaims *auth.GrantClaims
}

var _ auth.JWTService = (*MockJWTService)(nil)

// GenerateToken implements the auth.JWTService interface
func (m *MockJWTService) GenerateToken(ctx context.Context, explorerID uuid.UUID) (string, error) {
	if m.GenerateTokenFn != nil {
		return m.GenerateTokenFn(ctx, explorerID)
	}
	return m.Token, m.Err
}

// ValidateToken implements the auth.JWTService interface
func (m *MockJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, tokenString)
	}
	return m.Claims, m.ValidateErr
}

// GenerateGrant implements the auth.JWTService interface
func (m *MockJWTService) GenerateGrant(ctx context.Context, experienceID uuid.UUID) (string, time.Time, error) {
	if m.GenerateGrantFn != nil {
		return m.GenerateGrantFn(ctx, experienceID)
	}
	return m.Grant, m.ExpiresAt, m.Err
}

// ValidateGrant implements the auth.JWTService interface
func (m *MockJWTService) ValidateGrant(ctx context.Context, tokenString string) (*auth.GrantClaims, error) {
	if m.ValidateGrantFn != nil {
		return m.ValidateGrantFn(ctx, tokenString)
	}
	return m.GrantClaims, m.ValidateErr
}
