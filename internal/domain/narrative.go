package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Narrative limits and presentation constants.
const (
	MaxCategoryLength  = 50
	ExcerptLength      = 250
	excerptEllipsis    = "..."
	defaultTitleLayout = "January 02, 2006"
)

// Narrative is a journal entry within an experience.
type Narrative struct {
	ID           uuid.UUID  `json:"id"`
	ExperienceID uuid.UUID  `json:"experience_id"`
	AuthorID     uuid.UUID  `json:"author_id"`
	Title        string     `json:"title"`
	Body         string     `json:"body"`
	Category     string     `json:"category,omitempty"`
	IsPublic     bool       `json:"is_public"`
	GalleryID    *uuid.UUID `json:"gallery_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Kind implements Authored.
func (n *Narrative) Kind() EntityKind { return KindNarrative }

// Author implements Authored.
func (n *Narrative) Author() uuid.UUID { return n.AuthorID }

// DefaultNarrativeTitle formats t as the title used when none is given.
func DefaultNarrativeTitle(t time.Time) string {
	return t.Format(defaultTitleLayout)
}

// NewNarrative builds a validated narrative under experience. When isPublic is
// nil the narrative inherits the experience's visibility.
func NewNarrative(
	experience *Experience,
	authorID uuid.UUID,
	title, body, category string,
	isPublic *bool,
	createdAt time.Time,
) (*Narrative, error) {
	if experience == nil {
		return nil, NewValidationError("experience_id", "experience is required", ErrInvalidID)
	}
	now := time.Now().UTC()
	if createdAt.IsZero() {
		createdAt = now
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = DefaultNarrativeTitle(createdAt)
	}
	public := experience.IsPublic
	if isPublic != nil {
		public = *isPublic
	}
	n := &Narrative{
		ID:           uuid.New(),
		ExperienceID: experience.ID,
		AuthorID:     authorID,
		Title:        title,
		Body:         body,
		Category:     strings.TrimSpace(category),
		IsPublic:     public,
		CreatedAt:    createdAt.UTC(),
		UpdatedAt:    now,
	}
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return n, nil
}

// Validate checks the narrative's fields.
func (n *Narrative) Validate() error {
	if n.ID == uuid.Nil {
		return NewValidationError("id", "narrative ID cannot be empty", ErrInvalidID)
	}
	if n.ExperienceID == uuid.Nil {
		return NewValidationError("experience_id", "experience ID cannot be empty", ErrInvalidID)
	}
	if n.AuthorID == uuid.Nil {
		return NewValidationError("author_id", "author ID cannot be empty", ErrInvalidID)
	}
	if n.Title == "" {
		return NewValidationError("title", "Title cannot be empty", nil)
	}
	if utf8.RuneCountInString(n.Title) > MaxTitleLength {
		return NewValidationError("title", "Title must be at most 200 characters", nil)
	}
	if utf8.RuneCountInString(n.Category) > MaxCategoryLength {
		return NewValidationError("category", "Category must be at most 50 characters", nil)
	}
	return nil
}

// NarrativeChanges holds the fields an author may edit. Nil means unchanged.
type NarrativeChanges struct {
	Title    *string
	Body     *string
	Category *string
	IsPublic *bool
}

// WithChanges returns a validated copy with changes applied. An empty title
// falls back to the creation date, as at creation time.
func (n *Narrative) WithChanges(c NarrativeChanges) (*Narrative, error) {
	next := *n
	if c.Title != nil {
		next.Title = strings.TrimSpace(*c.Title)
		if next.Title == "" {
			next.Title = DefaultNarrativeTitle(n.CreatedAt)
		}
	}
	if c.Body != nil {
		next.Body = *c.Body
	}
	if c.Category != nil {
		next.Category = strings.TrimSpace(*c.Category)
	}
	if c.IsPublic != nil {
		next.IsPublic = *c.IsPublic
	}
	if err := next.Validate(); err != nil {
		return nil, err
	}
	next.UpdatedAt = time.Now().UTC()
	return &next, nil
}

// Excerpt returns the first chars characters of text followed by "..." when
// text is longer. Length is counted in runes.
func Excerpt(text string, chars int) string {
	if chars < 0 {
		chars = 0
	}
	if utf8.RuneCountInString(text) <= chars {
		return text
	}
	i, count := 0, 0
	for i = range text {
		if count == chars {
			break
		}
		count++
	}
	return text[:i] + excerptEllipsis
}

// NarrativeSummary is the listing view of a narrative.
type NarrativeSummary struct {
	ID           uuid.UUID `json:"id"`
	ExperienceID uuid.UUID `json:"experience_id"`
	AuthorID     uuid.UUID `json:"author_id"`
	Title        string    `json:"title"`
	Excerpt      string    `json:"excerpt"`
	Category     string    `json:"category,omitempty"`
	IsPublic     bool      `json:"is_public"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Summary returns the listing view of n.
func (n *Narrative) Summary() NarrativeSummary {
	return NarrativeSummary{
		ID:           n.ID,
		ExperienceID: n.ExperienceID,
		AuthorID:     n.AuthorID,
		Title:        n.Title,
		Excerpt:      Excerpt(n.Body, ExcerptLength),
		Category:     n.Category,
		IsPublic:     n.IsPublic,
		CreatedAt:    n.CreatedAt,
		UpdatedAt:    n.UpdatedAt,
	}
}
