package store

import (
	"context"
	"database/sql"

	"github.com/acressity/acressity-api/internal/domain"
	"github.com/google/uuid"
)

// ExperienceStore defines persistence for experiences and their comrades.
// Returned experiences always carry their ComradeIDs.
type ExperienceStore interface {
	// Create saves a new experience and records its comrades.
	// Returns ErrSearchTermExists when the search term is taken by an
	// experience or an explorer's trailname.
	Create(ctx context.Context, experience *domain.Experience) error

	// GetByID returns ErrExperienceNotFound if the experience does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Experience, error)

	// GetForUpdate loads the experience and locks its row until the
	// surrounding transaction ends. Only meaningful on a WithTx store.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Experience, error)

	// GetBySearchTerm returns ErrExperienceNotFound if no experience uses term.
	GetBySearchTerm(ctx context.Context, term string) (*domain.Experience, error)

	// Update writes the editable fields and password hash.
	Update(ctx context.Context, experience *domain.Experience) error

	// AttachGallery points the experience at its gallery.
	AttachGallery(ctx context.Context, id, galleryID uuid.UUID) error

	// Delete removes the experience. Narratives go with it.
	Delete(ctx context.Context, id uuid.UUID) error

	// AddComrade returns ErrComradeExists if the explorer already shares it.
	AddComrade(ctx context.Context, experienceID, explorerID uuid.UUID) error

	// RemoveComrade returns ErrComradeNotFound if the explorer is not a comrade.
	RemoveComrade(ctx context.Context, experienceID, explorerID uuid.UUID) error

	// ListByExplorer returns experiences the explorer authored or shares,
	// newest first. publicOnly restricts the result to public experiences.
	ListByExplorer(ctx context.Context, explorerID uuid.UUID, publicOnly bool) ([]*domain.Experience, error)

	// WithTx returns a store bound to tx.
	WithTx(tx *sql.Tx) ExperienceStore
}

// FeaturedStore records featured experiences.
type FeaturedStore interface {
	Create(ctx context.Context, featured *domain.FeaturedExperience) error

	// Latest returns the explorer's current feature, or ErrFeaturedNotFound.
	Latest(ctx context.Context, explorerID uuid.UUID) (*domain.FeaturedExperience, error)

	WithTx(tx *sql.Tx) FeaturedStore
}
