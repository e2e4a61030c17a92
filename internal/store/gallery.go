package store

import (
	"context"
	"database/sql"

	"github.com/acressity/acressity-api/internal/domain"
	"github.com/google/uuid"
)

// GalleryStore defines persistence for gallery records.
type GalleryStore interface {
	Create(ctx context.Context, gallery *domain.Gallery) error

	// GetByID returns ErrGalleryNotFound if the gallery does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Gallery, error)

	// SetVisibility updates is_public. Missing galleries are ignored.
	SetVisibility(ctx context.Context, id uuid.UUID, isPublic bool) error

	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Gallery, error)

	// DeleteByOwner removes galleries owned by the given entity. For an
	// experience this includes the galleries of its narratives.
	DeleteByOwner(ctx context.Context, kind domain.EntityKind, ownerID uuid.UUID) error

	WithTx(tx *sql.Tx) GalleryStore
}
