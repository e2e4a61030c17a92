package service

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/acressity/acressity-api/internal/domain"
	"github.com/acressity/acressity-api/internal/platform/logger"
	"github.com/acressity/acressity-api/internal/store"
	"github.com/google/uuid"
)

// GalleryService creates the photo galleries attached to experiences and
// narratives. Both operations are idempotent.
type GalleryService interface {
	EnsureExperienceGallery(ctx context.Context, viewer domain.Viewer, experienceID uuid.UUID) (*domain.Gallery, error)
	EnsureNarrativeGallery(ctx context.Context, viewer domain.Viewer, narrativeID uuid.UUID) (*domain.Gallery, error)
}

type galleryServiceImpl struct {
	stores Stores
	db     *sql.DB
	logger *slog.Logger
}

// NewGalleryService creates a GalleryService.
func NewGalleryService(stores Stores, db *sql.DB, log *slog.Logger) (GalleryService, error) {
	if err := checkStores(stores, "gallery"); err != nil {
		return nil, err
	}
	if db == nil {
		return nil, nilDependency("gallery", "db")
	}
	if log == nil {
		log = slog.Default()
	}
	return &galleryServiceImpl{
		stores: stores,
		db:     db,
		logger: log.With("component", "gallery_service"),
	}, nil
}

func (s *galleryServiceImpl) fail(ctx context.Context, op string, err error, args ...any) error {
	log := logger.FromContextOrDefault(ctx, s.logger)
	switch {
	case isPermission(err):
		log.Warn("permission denied", append([]any{"operation", op}, args...)...)
	case !isExpected(err):
		log.Error("gallery operation failed", append([]any{"operation", op, "error", err}, args...)...)
	}
	return NewServiceError("gallery", op, "", err)
}

// EnsureExperienceGallery implements GalleryService.
func (s *galleryServiceImpl) EnsureExperienceGallery(
	ctx context.Context,
	viewer domain.Viewer,
	experienceID uuid.UUID,
) (*domain.Gallery, error) {
	var gallery *domain.Gallery
	err := store.Atomically(ctx, s.db, s.stores, func(ctx context.Context, stores store.Stores) error {
		e, err := writable(ctx, stores.Experiences, viewer, experienceID)
		if err != nil {
			return err
		}
		if e.GalleryID != nil {
			gallery, err = stores.Galleries.GetByID(ctx, *e.GalleryID)
			return err
		}
		g := domain.NewExperienceGallery(e)
		if err := stores.Galleries.Create(ctx, g); err != nil {
			return err
		}
		if err := stores.Experiences.AttachGallery(ctx, e.ID, g.ID); err != nil {
			return err
		}
		gallery = g
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, "ensure_experience_gallery", err, "experience_id", experienceID)
	}
	return gallery, nil
}

// EnsureNarrativeGallery implements GalleryService.
func (s *galleryServiceImpl) EnsureNarrativeGallery(
	ctx context.Context,
	viewer domain.Viewer,
	narrativeID uuid.UUID,
) (*domain.Gallery, error) {
	if !viewer.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	var gallery *domain.Gallery
	err := store.Atomically(ctx, s.db, s.stores, func(ctx context.Context, stores store.Stores) error {
		n, err := stores.Narratives.GetForUpdate(ctx, narrativeID)
		if err != nil {
			return err
		}
		if !domain.CanWrite(viewer, n) {
			return domain.ErrPermissionDenied
		}
		if n.GalleryID != nil {
			gallery, err = stores.Galleries.GetByID(ctx, *n.GalleryID)
			return err
		}
		e, err := stores.Experiences.GetByID(ctx, n.ExperienceID)
		if err != nil {
			return err
		}
		g := domain.NewNarrativeGallery(n, e)
		if err := stores.Galleries.Create(ctx, g); err != nil {
			return err
		}
		if err := stores.Narratives.AttachGallery(ctx, n.ID, g.ID); err != nil {
			return err
		}
		gallery = g
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, "ensure_narrative_gallery", err, "narrative_id", narrativeID)
	}
	return gallery, nil
}
