package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Field limits for experiences.
const (
	MinExperienceTitleLength = 3
	MaxTitleLength           = 200
	MaxStatusLength          = 160
	MaxSearchTermLength      = 80
)

// Authored is implemented by entities that have an immutable author.
type Authored interface {
	Kind() EntityKind
	Author() uuid.UUID
}

// Experience is a goal or journey made up of narratives. Its author may
// share it with comrades, hide it and optionally gate it behind a password.
type Experience struct {
	ID         uuid.UUID   `json:"id"`
	AuthorID   uuid.UUID   `json:"author_id"`
	Title      string      `json:"title"`
	Brief      string      `json:"brief,omitempty"`
	Status     string      `json:"status,omitempty"`
	IsPublic   bool        `json:"is_public"`
	Password   string      `json:"-"` // bcrypt hash, empty when ungated
	SearchTerm *string     `json:"search_term,omitempty"`
	GalleryID  *uuid.UUID  `json:"gallery_id,omitempty"`
	ComradeIDs []uuid.UUID `json:"comrade_ids"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// Kind implements Authored.
func (e *Experience) Kind() EntityKind { return KindExperience }

// Author implements Authored.
func (e *Experience) Author() uuid.UUID { return e.AuthorID }

// HasPassword reports whether the experience is password gated.
func (e *Experience) HasPassword() bool { return e.Password != "" }

// HasComrade reports whether explorerID is among the experience's comrades.
func (e *Experience) HasComrade(explorerID uuid.UUID) bool {
	for _, id := range e.ComradeIDs {
		if id == explorerID {
			return true
		}
	}
	return false
}

// NewExperience builds a validated experience authored by authorID. The author
// is always recorded as the first comrade. A zero createdAt defaults to now.
func NewExperience(
	authorID uuid.UUID,
	title, brief, status string,
	isPublic bool,
	createdAt time.Time,
) (*Experience, error) {
	now := time.Now().UTC()
	if createdAt.IsZero() {
		createdAt = now
	}
	e := &Experience{
		ID:         uuid.New(),
		AuthorID:   authorID,
		Title:      strings.TrimSpace(title),
		Brief:      brief,
		Status:     strings.TrimSpace(status),
		IsPublic:   isPublic,
		ComradeIDs: []uuid.UUID{authorID},
		CreatedAt:  createdAt.UTC(),
		UpdatedAt:  now,
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// Validate checks the experience's fields.
func (e *Experience) Validate() error {
	if e.ID == uuid.Nil {
		return NewValidationError("id", "experience ID cannot be empty", ErrInvalidID)
	}
	if e.AuthorID == uuid.Nil {
		return NewValidationError("author_id", "author ID cannot be empty", ErrInvalidID)
	}
	if err := ValidateExperienceTitle(e.Title); err != nil {
		return err
	}
	if utf8.RuneCountInString(e.Status) > MaxStatusLength {
		return NewValidationError("status", "Status must be at most 160 characters", nil)
	}
	if e.SearchTerm != nil {
		if err := ValidateSearchTerm(*e.SearchTerm); err != nil {
			return err
		}
	}
	return nil
}

// ValidateExperienceTitle checks an experience title after trimming.
func ValidateExperienceTitle(title string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(title))
	if n < MinExperienceTitleLength {
		return NewValidationError("title", "Make the experience name a little more descriptive", nil)
	}
	if n > MaxTitleLength {
		return NewValidationError("title", "Title must be at most 200 characters", nil)
	}
	return nil
}

// ValidateSearchTerm checks a search term. It shares the trailname alphabet
// because both are resolved from the same URL space.
func ValidateSearchTerm(term string) error {
	if term == "" {
		return NewValidationError("search_term", "Search term cannot be empty", nil)
	}
	if utf8.RuneCountInString(term) > MaxSearchTermLength {
		return NewValidationError("search_term", "Search term must be at most 80 characters", nil)
	}
	if !trailnamePattern.MatchString(term) {
		return NewValidationError("search_term",
			"Search term may only contain letters, numbers, dashes and underscores", nil)
	}
	return nil
}

// ExperienceChanges holds the fields an author may edit. Nil means unchanged.
// An empty SearchTerm clears it.
type ExperienceChanges struct {
	Title      *string
	Brief      *string
	Status     *string
	IsPublic   *bool
	SearchTerm *string
}

// WithChanges returns a validated copy of the experience with changes applied.
// The receiver is left untouched so it can serve as the prior state.
func (e *Experience) WithChanges(c ExperienceChanges) (*Experience, error) {
	next := *e
	next.ComradeIDs = append([]uuid.UUID(nil), e.ComradeIDs...)
	if c.Title != nil {
		next.Title = strings.TrimSpace(*c.Title)
	}
	if c.Brief != nil {
		next.Brief = *c.Brief
	}
	if c.Status != nil {
		next.Status = strings.TrimSpace(*c.Status)
	}
	if c.IsPublic != nil {
		next.IsPublic = *c.IsPublic
	}
	if c.SearchTerm != nil {
		term := strings.TrimSpace(*c.SearchTerm)
		if term == "" {
			next.SearchTerm = nil
		} else {
			next.SearchTerm = &term
		}
	}
	if err := next.Validate(); err != nil {
		return nil, err
	}
	next.UpdatedAt = time.Now().UTC()
	return &next, nil
}
