package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordVerifier defines the interface for comparing passwords.
type PasswordVerifier interface {
	// Compare returns nil when password matches hashedPassword and
	// ErrPasswordMismatch when it does not.
	Compare(hashedPassword, password string) error
}

// PasswordHasher turns plaintext into a storable hash.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// Credentials hashes and verifies passwords for explorers and gated
// experiences alike.
type Credentials interface {
	PasswordHasher
	PasswordVerifier
}

// BcryptCredentials implements Credentials using bcrypt.
type BcryptCredentials struct {
	cost int
}

var _ Credentials = (*BcryptCredentials)(nil)

// NewBcryptCredentials creates bcrypt credentials with the given cost.
// Out-of-range costs fall back to bcrypt.DefaultCost.
func NewBcryptCredentials(cost int) *BcryptCredentials {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptCredentials{cost: cost}
}

// Hash implements PasswordHasher.
func (c *BcryptCredentials) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), c.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Compare implements PasswordVerifier.
func (c *BcryptCredentials) Compare(hashedPassword, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrPasswordMismatch
	}
	return err
}
