package store

import (
	"context"
	"database/sql"

	"github.com/acressity/acressity-api/internal/domain"
	"github.com/google/uuid"
)

// NarrativeFilter selects narratives for counting and listing. Nil fields
// are not filtered on.
type NarrativeFilter struct {
	AuthorID     *uuid.UUID
	ExperienceID *uuid.UUID
	PublicOnly   bool
	// VisibleTo, when set, also drops narratives whose experience is private
	// unless the viewer is one of its members or holds a grant for it.
	VisibleTo *domain.Viewer
}

// NarrativeStore defines persistence for narratives.
type NarrativeStore interface {
	Create(ctx context.Context, narrative *domain.Narrative) error

	// GetByID returns ErrNarrativeNotFound if the narrative does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Narrative, error)

	// GetForUpdate loads the narrative and locks its row until the
	// surrounding transaction ends.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Narrative, error)

	Update(ctx context.Context, narrative *domain.Narrative) error

	Delete(ctx context.Context, id uuid.UUID) error

	// ListByExperienceForUpdate returns every narrative of the experience and
	// locks their rows.
	ListByExperienceForUpdate(ctx context.Context, experienceID uuid.UUID) ([]*domain.Narrative, error)

	// MakePrivate sets is_public=false on the given narratives.
	MakePrivate(ctx context.Context, ids []uuid.UUID) error

	// AttachGallery points the narrative at its gallery.
	AttachGallery(ctx context.Context, id, galleryID uuid.UUID) error

	// Count returns how many narratives match filter.
	Count(ctx context.Context, filter NarrativeFilter) (int, error)

	// List returns narratives matching filter ordered newest first.
	List(ctx context.Context, filter NarrativeFilter, limit, offset int) ([]*domain.Narrative, error)

	// Adjacent returns the ids of the narratives created just before and
	// just after n within its experience. Nil means none.
	Adjacent(ctx context.Context, n *domain.Narrative, publicOnly bool) (previous, next *uuid.UUID, err error)

	// GalleryIDsByExperience returns gallery ids of the experience's
	// narratives, public ones only when publicOnly is set.
	GalleryIDsByExperience(ctx context.Context, experienceID uuid.UUID, publicOnly bool) ([]uuid.UUID, error)

	WithTx(tx *sql.Tx) NarrativeStore
}
