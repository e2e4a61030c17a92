package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Token types carried in the "type" claim.
const (
	TokenTypeAccess          = "access"
	TokenTypeExperienceGrant = "experience_grant"
)

// JWTService issues and validates signed tokens: access tokens identifying an
// explorer, and experience grants proving an experience's password was given.
type JWTService interface {
	// GenerateToken creates a signed access token for the explorer.
	GenerateToken(ctx context.Context, explorerID uuid.UUID) (string, error)

	// ValidateToken validates an access token and returns its claims.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)

	// GenerateGrant creates a signed grant for the experience and reports
	// when it expires.
	GenerateGrant(ctx context.Context, experienceID uuid.UUID) (string, time.Time, error)

	// ValidateGrant validates a grant token and returns its claims.
	ValidateGrant(ctx context.Context, tokenString string) (*GrantClaims, error)
}

// Claims are the validated contents of an access token.
type Claims struct {
	ExplorerID uuid.UUID `json:"uid,omitempty"`
	TokenType  string    `json:"type,omitempty"`
	Subject    string    `json:"sub,omitempty"`
	IssuedAt   time.Time `json:"iat,omitempty"`
	ExpiresAt  time.Time `json:"exp,omitempty"`
	ID         string    `json:"jti,omitempty"`
}

// GrantClaims are the validated contents of an experience grant.
type GrantClaims struct {
	ExperienceID uuid.UUID `json:"eid,omitempty"`
	IssuedAt     time.Time `json:"iat,omitempty"`
	ExpiresAt    time.Time `json:"exp,omitempty"`
	ID           string    `json:"jti,omitempty"`
}
