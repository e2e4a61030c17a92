package mocks

import (
	"strings"

	"github.com/acressity/acressity-api/internal/service/auth"
)

const hashPrefix = "hashed:"

// MockCredentials implements auth.Credentials with a reversible "hash" so
// tests can assert on stored values.
type MockCredentials struct {
	HashFn    func(password string) (string, error)
	CompareFn func(hashedPassword, password string) error

	// CompareCallCount tracks how many times Compare was called
	CompareCallCount int
}

var _ auth.Credentials = (*MockCredentials)(nil)

// Hash implements auth.PasswordHasher.
func (m *MockCredentials) Hash(password string) (string, error) {
	if m.HashFn != nil {
		return m.HashFn(password)
	}
	return hashPrefix + password, nil
}

// Compare implements auth.PasswordVerifier.
func (m *MockCredentials) Compare(hashedPassword, password string) error {
	m.CompareCallCount++
	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	if !strings.HasPrefix(hashedPassword, hashPrefix) || hashedPassword != hashPrefix+password {
		return auth.ErrPasswordMismatch
	}
	return nil
}
