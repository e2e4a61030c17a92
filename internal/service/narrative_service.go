package service

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/acressity/acressity-api/internal/domain"
	"github.com/acressity/acressity-api/internal/platform/logger"
	"github.com/acressity/acressity-api/internal/store"
	"github.com/google/uuid"
)

// CreateNarrativeInput carries the fields of a new narrative. A nil IsPublic
// inherits the experience's visibility.
type CreateNarrativeInput struct {
	Title     string
	Body      string
	Category  string
	IsPublic  *bool
	CreatedAt time.Time
}

// NarrativeDetail is a narrative with its neighbours in the experience.
type NarrativeDetail struct {
	Narrative *domain.Narrative
	Previous  *uuid.UUID
	Next      *uuid.UUID
}

// NarrativePage is one page of narrative summaries.
type NarrativePage struct {
	Items []domain.NarrativeSummary
	Page  domain.Page
}

// NarrativeService manages narratives and their listings.
type NarrativeService interface {
	Create(
		ctx context.Context,
		viewer domain.Viewer,
		experienceID uuid.UUID,
		in CreateNarrativeInput,
	) (*domain.Narrative, error)

	// Get returns the narrative with the ids of the previous and next
	// narratives the viewer may see in the same experience.
	Get(ctx context.Context, viewer domain.Viewer, id uuid.UUID) (*NarrativeDetail, error)

	// Update applies changes and keeps the narrative's gallery visibility in step.
	Update(
		ctx context.Context,
		viewer domain.Viewer,
		id uuid.UUID,
		changes domain.NarrativeChanges,
	) (*domain.Narrative, error)

	// Delete removes the narrative and its gallery. Without confirm it
	// returns domain.ErrConfirmationRequired and changes nothing.
	Delete(ctx context.Context, viewer domain.Viewer, id uuid.UUID, confirm bool) error

	// ListByExplorer pages through narratives written by explorerID. Only the
	// explorer sees their private narratives. Others see public narratives of
	// experiences they can read.
	ListByExplorer(ctx context.Context, viewer domain.Viewer, explorerID uuid.UUID, page string) (*NarrativePage, error)

	// ListByExperience pages through an experience's narratives.
	ListByExperience(
		ctx context.Context,
		viewer domain.Viewer,
		experienceID uuid.UUID,
		page string,
	) (*NarrativePage, error)
}

type narrativeServiceImpl struct {
	stores   Stores
	db       *sql.DB
	pageSize int
	logger   *slog.Logger
}

// NewNarrativeService creates a NarrativeService. pageSize comes from the
// listing configuration.
func NewNarrativeService(stores Stores, db *sql.DB, pageSize int, log *slog.Logger) (NarrativeService, error) {
	if err := checkStores(stores, "narrative"); err != nil {
		return nil, err
	}
	if db == nil {
		return nil, nilDependency("narrative", "db")
	}
	if log == nil {
		log = slog.Default()
	}
	if pageSize <= 0 {
		pageSize = domain.DefaultPageSize
	}
	return &narrativeServiceImpl{
		stores:   stores,
		db:       db,
		pageSize: pageSize,
		logger:   log.With("component", "narrative_service"),
	}, nil
}

func (s *narrativeServiceImpl) fail(ctx context.Context, op string, err error, args ...any) error {
	if err == nil {
		return nil
	}
	log := logger.FromContextOrDefault(ctx, s.logger)
	switch {
	case isPermission(err):
		log.Warn("permission denied", append([]any{"operation", op}, args...)...)
	case isExpected(err):
		log.Debug("narrative operation rejected", append([]any{"operation", op, "error", err}, args...)...)
	default:
		log.Error("narrative operation failed", append([]any{"operation", op, "error", err}, args...)...)
	}
	return NewServiceError("narrative", op, "", err)
}

// Create implements NarrativeService.
func (s *narrativeServiceImpl) Create(
	ctx context.Context,
	viewer domain.Viewer,
	experienceID uuid.UUID,
	in CreateNarrativeInput,
) (*domain.Narrative, error) {
	if !viewer.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	var created *domain.Narrative
	err := store.Atomically(ctx, s.db, s.stores, func(ctx context.Context, stores store.Stores) error {
		e, err := stores.Experiences.GetByID(ctx, experienceID)
		if err != nil {
			return err
		}
		if !domain.CanContribute(viewer, e) {
			return domain.ErrPermissionDenied
		}
		n, err := domain.NewNarrative(e, viewer.ExplorerID, in.Title, in.Body, in.Category, in.IsPublic, in.CreatedAt)
		if err != nil {
			return err
		}
		if err := stores.Narratives.Create(ctx, n); err != nil {
			return err
		}
		created = n
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, "create", err, "experience_id", experienceID)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("narrative created",
		"narrative_id", created.ID,
		"experience_id", experienceID,
		"explorer_id", viewer.ExplorerID)
	return created, nil
}

// Get implements NarrativeService.
func (s *narrativeServiceImpl) Get(ctx context.Context, viewer domain.Viewer, id uuid.UUID) (*NarrativeDetail, error) {
	n, err := s.stores.Narratives.GetByID(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, "get", err, "narrative_id", id)
	}
	e, err := s.stores.Experiences.GetByID(ctx, n.ExperienceID)
	if err != nil {
		return nil, s.fail(ctx, "get", err, "narrative_id", id)
	}
	if !domain.CanReadNarrative(viewer, n, e) {
		if e.HasPassword() {
			return nil, s.fail(ctx, "get", ErrPasswordRequired, "narrative_id", id)
		}
		return nil, s.fail(ctx, "get", domain.ErrPermissionDenied, "narrative_id", id)
	}

	prev, next, err := s.stores.Narratives.Adjacent(ctx, n, !domain.CanSeeAllNarratives(viewer, e))
	if err != nil {
		return nil, s.fail(ctx, "get", err, "narrative_id", id)
	}
	return &NarrativeDetail{Narrative: n, Previous: prev, Next: next}, nil
}

// Update implements NarrativeService.
func (s *narrativeServiceImpl) Update(
	ctx context.Context,
	viewer domain.Viewer,
	id uuid.UUID,
	changes domain.NarrativeChanges,
) (*domain.Narrative, error) {
	if !viewer.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	var updated *domain.Narrative
	err := store.Atomically(ctx, s.db, s.stores, func(ctx context.Context, stores store.Stores) error {
		prior, err := stores.Narratives.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !domain.CanWrite(viewer, prior) {
			return domain.ErrPermissionDenied
		}
		next, err := prior.WithChanges(changes)
		if err != nil {
			return err
		}

		plan := domain.PlanNarrativeCascade(prior, next)
		if err := applyCascade(ctx, stores.Narratives, stores.Galleries, plan); err != nil {
			return err
		}

		next.UpdatedAt = time.Now().UTC()
		if err := stores.Narratives.Update(ctx, next); err != nil {
			return err
		}
		updated = next
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, "update", err, "narrative_id", id)
	}
	return updated, nil
}

// Delete implements NarrativeService.
func (s *narrativeServiceImpl) Delete(ctx context.Context, viewer domain.Viewer, id uuid.UUID, confirm bool) error {
	if !viewer.Authenticated() {
		return domain.ErrUnauthenticated
	}
	if !confirm {
		return domain.ErrConfirmationRequired
	}
	err := store.Atomically(ctx, s.db, s.stores, func(ctx context.Context, stores store.Stores) error {
		n, err := stores.Narratives.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !domain.CanWrite(viewer, n) {
			return domain.ErrPermissionDenied
		}
		if err := stores.Galleries.DeleteByOwner(ctx, domain.KindNarrative, id); err != nil {
			return err
		}
		return stores.Narratives.Delete(ctx, id)
	})
	if err != nil {
		return s.fail(ctx, "delete", err, "narrative_id", id)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("narrative deleted", "narrative_id", id)
	return nil
}

// ListByExplorer implements NarrativeService.
func (s *narrativeServiceImpl) ListByExplorer(
	ctx context.Context,
	viewer domain.Viewer,
	explorerID uuid.UUID,
	page string,
) (*NarrativePage, error) {
	filter := store.NarrativeFilter{AuthorID: &explorerID}
	if !viewer.Is(explorerID) {
		filter.PublicOnly = true
		filter.VisibleTo = &viewer
	}
	result, err := s.list(ctx, filter, page)
	if err != nil {
		return nil, s.fail(ctx, "list_by_explorer", err, "explorer_id", explorerID)
	}
	return result, nil
}

// ListByExperience implements NarrativeService.
func (s *narrativeServiceImpl) ListByExperience(
	ctx context.Context,
	viewer domain.Viewer,
	experienceID uuid.UUID,
	page string,
) (*NarrativePage, error) {
	e, err := s.stores.Experiences.GetByID(ctx, experienceID)
	if err != nil {
		return nil, s.fail(ctx, "list_by_experience", err, "experience_id", experienceID)
	}
	if !domain.CanReadExperience(viewer, e) {
		if e.HasPassword() {
			return nil, s.fail(ctx, "list_by_experience", ErrPasswordRequired, "experience_id", experienceID)
		}
		return nil, s.fail(ctx, "list_by_experience", domain.ErrPermissionDenied, "experience_id", experienceID)
	}

	filter := store.NarrativeFilter{
		ExperienceID: &experienceID,
		PublicOnly:   !domain.CanSeeAllNarratives(viewer, e),
	}
	result, err := s.list(ctx, filter, page)
	if err != nil {
		return nil, s.fail(ctx, "list_by_experience", err, "experience_id", experienceID)
	}
	return result, nil
}

// list counts, resolves the page token and fetches one page.
func (s *narrativeServiceImpl) list(ctx context.Context, filter store.NarrativeFilter, token string) (*NarrativePage, error) {
	total, err := s.stores.Narratives.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	page := domain.ResolvePage(token, total, s.pageSize)

	result := &NarrativePage{Items: []domain.NarrativeSummary{}, Page: page}
	if total == 0 {
		return result, nil
	}
	narratives, err := s.stores.Narratives.List(ctx, filter, page.Size, page.Offset())
	if err != nil {
		return nil, err
	}
	for _, n := range narratives {
		result.Items = append(result.Items, n.Summary())
	}
	return result, nil
}
