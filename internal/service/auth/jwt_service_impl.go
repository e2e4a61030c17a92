package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/acressity/acressity-api/internal/config"
	"github.com/acressity/acressity-api/internal/platform/logger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// hmacJWTService is an implementation of JWTService using HMAC-SHA signing.
type hmacJWTService struct {
	signingKey    []byte
	tokenLifetime time.Duration
	grantLifetime time.Duration
	timeFunc      func() time.Time // Injectable for testing
	clockSkew     time.Duration
}

// jwtCustomClaims is the wire form shared by both token types.
type jwtCustomClaims struct {
	ExplorerID   uuid.UUID `json:"uid,omitempty"`
	ExperienceID uuid.UUID `json:"eid,omitempty"`
	TokenType    string    `json:"type"`
	jwt.RegisteredClaims
}

var _ JWTService = (*hmacJWTService)(nil)

// NewJWTService creates a new JWT service using HMAC-SHA signing.
func NewJWTService(cfg config.AuthConfig) (JWTService, error) {
	if len(cfg.JWTSecret) < 32 {
		return nil, fmt.Errorf("jwt secret must be at least 32 characters")
	}
	if cfg.TokenLifetimeMinutes <= 0 || cfg.GrantLifetimeMinutes <= 0 {
		return nil, fmt.Errorf("token lifetimes must be positive")
	}
	return &hmacJWTService{
		signingKey:    []byte(cfg.JWTSecret),
		tokenLifetime: time.Duration(cfg.TokenLifetimeMinutes) * time.Minute,
		grantLifetime: time.Duration(cfg.GrantLifetimeMinutes) * time.Minute,
		timeFunc:      time.Now,
		clockSkew:     2 * time.Minute,
	}, nil
}

func (s *hmacJWTService) sign(ctx context.Context, claims jwtCustomClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		logger.FromContext(ctx).Error("failed to sign JWT",
			"error", err,
			"token_type", claims.TokenType,
			"signing_method", jwt.SigningMethodHS256.Name)
		return "", fmt.Errorf("failed to sign %s token: %w", claims.TokenType, err)
	}
	return signed, nil
}

func (s *hmacJWTService) registered(subject string, lifetime time.Duration) jwt.RegisteredClaims {
	now := s.timeFunc()
	return jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
		ID:        uuid.New().String(),
	}
}

// GenerateToken implements JWTService.
func (s *hmacJWTService) GenerateToken(ctx context.Context, explorerID uuid.UUID) (string, error) {
	return s.sign(ctx, jwtCustomClaims{
		ExplorerID:       explorerID,
		TokenType:        TokenTypeAccess,
		RegisteredClaims: s.registered(explorerID.String(), s.tokenLifetime),
	})
}

// GenerateGrant implements JWTService.
func (s *hmacJWTService) GenerateGrant(ctx context.Context, experienceID uuid.UUID) (string, time.Time, error) {
	claims := jwtCustomClaims{
		ExperienceID:     experienceID,
		TokenType:        TokenTypeExperienceGrant,
		RegisteredClaims: s.registered(experienceID.String(), s.grantLifetime),
	}
	signed, err := s.sign(ctx, claims)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, claims.ExpiresAt.Time, nil
}

// parse verifies signature and time claims, then checks the token type.
func (s *hmacJWTService) parse(ctx context.Context, tokenString, wantType string) (*jwtCustomClaims, error) {
	log := logger.FromContext(ctx)
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	now := s.timeFunc()
	token, err := jwt.ParseWithClaims(
		tokenString,
		&jwtCustomClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.signingKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithLeeway(s.clockSkew),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		log.Debug("token validation failed", "error", err, "token_type", wantType)
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, ErrTokenNotYetValid
		default:
			return nil, ErrInvalidToken
		}
	}

	claims, ok := token.Claims.(*jwtCustomClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != wantType {
		log.Debug("token validation failed: wrong token type",
			"expected", wantType,
			"actual", claims.TokenType)
		return nil, ErrWrongTokenType
	}
	if claims.IssuedAt == nil || claims.ExpiresAt == nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ValidateToken implements JWTService.
func (s *hmacJWTService) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	c, err := s.parse(ctx, tokenString, TokenTypeAccess)
	if err != nil {
		return nil, err
	}
	if c.ExplorerID == uuid.Nil {
		return nil, ErrInvalidToken
	}
	return &Claims{
		ExplorerID: c.ExplorerID,
		TokenType:  c.TokenType,
		Subject:    c.Subject,
		IssuedAt:   c.IssuedAt.Time,
		ExpiresAt:  c.ExpiresAt.Time,
		ID:         c.ID,
	}, nil
}

// ValidateGrant implements JWTService.
func (s *hmacJWTService) ValidateGrant(ctx context.Context, tokenString string) (*GrantClaims, error) {
	c, err := s.parse(ctx, tokenString, TokenTypeExperienceGrant)
	if err != nil {
		return nil, err
	}
	if c.ExperienceID == uuid.Nil {
		return nil, ErrInvalidToken
	}
	return &GrantClaims{
		ExperienceID: c.ExperienceID,
		IssuedAt:     c.IssuedAt.Time,
		ExpiresAt:    c.ExpiresAt.Time,
		ID:           c.ID,
	}, nil
}
