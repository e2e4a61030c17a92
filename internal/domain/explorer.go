package domain

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Field limits for explorers.
const (
	MinFirstNameLength       = 2
	MaxNameLength            = 50
	MaxTrailnameLength       = 40
	DefaultMinPasswordLength = 8
	MaxPasswordLength        = 72 // bcrypt input limit
)

var trailnamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Explorer is a registered account. Explorers author experiences and
// take part in others' experiences as comrades.
type Explorer struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	Trailname      string    `json:"trailname"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Kind implements Entity.
func (e *Explorer) Kind() EntityKind { return KindExplorer }

// NewExplorer builds a validated explorer. The caller hashes the password
// beforehand; only the hash is ever held by the entity.
func NewExplorer(email, trailname, firstName, lastName, hashedPassword string) (*Explorer, error) {
	now := time.Now().UTC()
	e := &Explorer{
		ID:             uuid.New(),
		Email:          strings.TrimSpace(email),
		Trailname:      strings.TrimSpace(trailname),
		FirstName:      strings.TrimSpace(firstName),
		LastName:       strings.TrimSpace(lastName),
		HashedPassword: hashedPassword,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// Validate checks the explorer's profile fields.
func (e *Explorer) Validate() error {
	if e.ID == uuid.Nil {
		return NewValidationError("id", "explorer ID cannot be empty", ErrInvalidID)
	}
	if e.Email == "" {
		return NewValidationError("email", "Email is required", nil)
	}
	if _, err := mail.ParseAddress(e.Email); err != nil {
		return NewValidationError("email", "Enter a valid email address", nil)
	}
	if err := ValidateTrailname(e.Trailname); err != nil {
		return err
	}
	if utf8.RuneCountInString(e.FirstName) < MinFirstNameLength {
		return NewValidationError("first_name", "Name too short", nil)
	}
	if utf8.RuneCountInString(e.FirstName) > MaxNameLength {
		return NewValidationError("first_name", "Name too long", nil)
	}
	if utf8.RuneCountInString(e.LastName) > MaxNameLength {
		return NewValidationError("last_name", "Name too long", nil)
	}
	if e.HashedPassword == "" {
		return NewValidationError("password", "password hash cannot be empty", nil)
	}
	return nil
}

// FullName joins first and last name.
func (e *Explorer) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// ValidateTrailname checks the URL handle format.
func ValidateTrailname(trailname string) error {
	if trailname == "" {
		return NewValidationError("trailname", "Trailname is required", nil)
	}
	if utf8.RuneCountInString(trailname) > MaxTrailnameLength {
		return NewValidationError("trailname",
			fmt.Sprintf("Trailname must be at most %d characters", MaxTrailnameLength), nil)
	}
	if !trailnamePattern.MatchString(trailname) {
		return NewValidationError("trailname",
			"Trailname may only contain letters, numbers, dashes and underscores", nil)
	}
	return nil
}

// ValidateNewPassword checks a password and its confirmation at registration.
func ValidateNewPassword(password1, password2 string, minLength int) error {
	if password2 == "" {
		return NewValidationError("password2", "You must confirm your password", nil)
	}
	if password1 != password2 {
		return NewValidationError("password2", "Your passwords do not match", nil)
	}
	return validatePasswordLength("password1", password1, minLength)
}

// ValidatePasswordChange checks the new password pair when changing a password.
func ValidatePasswordChange(newPassword1, newPassword2 string, minLength int) error {
	if err := validatePasswordLength("new_password1", newPassword1, minLength); err != nil {
		return err
	}
	if newPassword1 != newPassword2 {
		return NewValidationError("new_password2", "Your newly chosen passwords did not match", nil)
	}
	return nil
}

// ValidateExperiencePassword checks a password set on an experience's gate.
func ValidateExperiencePassword(password string, minLength int) error {
	return validatePasswordLength("password", password, minLength)
}

func validatePasswordLength(field, password string, minLength int) error {
	if minLength <= 0 {
		minLength = DefaultMinPasswordLength
	}
	if utf8.RuneCountInString(password) < minLength {
		return NewValidationError(field,
			fmt.Sprintf("Password must be at least %d characters", minLength), nil)
	}
	if len(password) > MaxPasswordLength {
		return NewValidationError(field,
			fmt.Sprintf("Password must be at most %d bytes", MaxPasswordLength), nil)
	}
	return nil
}
