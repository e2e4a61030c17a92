package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/acressity/acressity-api/internal/domain"
	"github.com/acressity/acressity-api/internal/platform/logger"
	"github.com/acressity/acressity-api/internal/service/auth"
	"github.com/acressity/acressity-api/internal/store"
	"github.com/google/uuid"
)

// CreateExperienceInput carries the fields of a new experience.
type CreateExperienceInput struct {
	Title    string
	Brief    string
	Status   string
	IsPublic bool
	// MakeFeature also features the experience on the author's profile.
	MakeFeature bool
	CreatedAt   time.Time
}

// Grant is a signed proof that an experience's password was given.
type Grant struct {
	ExperienceID uuid.UUID `json:"experience_id"`
	Token        string    `json:"grant"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// ExperienceService manages experiences, their comrades and password gates.
type ExperienceService interface {
	Create(ctx context.Context, viewer domain.Viewer, in CreateExperienceInput) (*domain.Experience, error)
	Get(ctx context.Context, viewer domain.Viewer, id uuid.UUID) (*domain.Experience, error)
	GetBySearchTerm(ctx context.Context, viewer domain.Viewer, term string) (*domain.Experience, error)

	// Update applies changes and cascades a visibility change to the
	// experience's narratives and galleries in the same transaction.
	Update(
		ctx context.Context,
		viewer domain.Viewer,
		id uuid.UUID,
		changes domain.ExperienceChanges,
	) (*domain.Experience, error)

	// Delete removes the experience, its narratives and their galleries.
	Delete(ctx context.Context, viewer domain.Viewer, id uuid.UUID) error

	SetPassword(ctx context.Context, viewer domain.Viewer, id uuid.UUID, password string) error
	ClearPassword(ctx context.Context, viewer domain.Viewer, id uuid.UUID) error

	// Unlock verifies the experience password and issues a grant.
	Unlock(ctx context.Context, id uuid.UUID, password string) (*Grant, error)

	AddComrade(ctx context.Context, viewer domain.Viewer, id, explorerID uuid.UUID) (*domain.Experience, error)
	RemoveComrade(ctx context.Context, viewer domain.Viewer, id, explorerID uuid.UUID) error

	// ListComrades returns the experience's comrades other than the viewer.
	ListComrades(ctx context.Context, viewer domain.Viewer, id uuid.UUID) ([]*domain.Explorer, error)

	// ListByExplorer returns the explorer's experiences the viewer may read.
	ListByExplorer(ctx context.Context, viewer domain.Viewer, explorerID uuid.UUID) ([]*domain.Experience, error)

	Feature(ctx context.Context, viewer domain.Viewer, id uuid.UUID) (*domain.FeaturedExperience, error)

	// LatestFeatured returns the explorer's current featured experience.
	LatestFeatured(ctx context.Context, viewer domain.Viewer, explorerID uuid.UUID) (*domain.Experience, error)

	// ListGalleries returns the experience's galleries visible to the viewer.
	ListGalleries(ctx context.Context, viewer domain.Viewer, id uuid.UUID) ([]*domain.Gallery, error)

	// LatestPublicNarrative returns the newest public narrative of the experience.
	LatestPublicNarrative(ctx context.Context, viewer domain.Viewer, id uuid.UUID) (*domain.Narrative, error)
}

// Stores groups the stores the services read and write through.
type Stores = store.Stores

func checkStores(stores Stores, service string) error {
	if name := stores.Missing(); name != "" {
		return nilDependency(service, name)
	}
	return nil
}

type experienceServiceImpl struct {
	stores            Stores
	credentials       auth.Credentials
	tokens            auth.JWTService
	db                *sql.DB
	minPasswordLength int
	logger            *slog.Logger
}

// NewExperienceService creates an ExperienceService.
func NewExperienceService(
	stores Stores,
	credentials auth.Credentials,
	tokens auth.JWTService,
	db *sql.DB,
	minPasswordLength int,
	log *slog.Logger,
) (ExperienceService, error) {
	if err := checkStores(stores, "experience"); err != nil {
		return nil, err
	}
	if credentials == nil {
		return nil, nilDependency("experience", "credentials")
	}
	if tokens == nil {
		return nil, nilDependency("experience", "tokens")
	}
	if db == nil {
		return nil, nilDependency("experience", "db")
	}
	if log == nil {
		log = slog.Default()
	}
	if minPasswordLength <= 0 {
		minPasswordLength = domain.DefaultMinPasswordLength
	}
	return &experienceServiceImpl{
		stores:            stores,
		credentials:       credentials,
		tokens:            tokens,
		db:                db,
		minPasswordLength: minPasswordLength,
		logger:            log.With("component", "experience_service"),
	}, nil
}

func (s *experienceServiceImpl) fail(ctx context.Context, op string, err error, args ...any) error {
	if err == nil {
		return nil
	}
	log := logger.FromContextOrDefault(ctx, s.logger)
	switch {
	case isPermission(err):
		log.Warn("permission denied", append([]any{"operation", op}, args...)...)
	case isExpected(err):
		log.Debug("experience operation rejected", append([]any{"operation", op, "error", err}, args...)...)
	default:
		log.Error("experience operation failed", append([]any{"operation", op, "error", err}, args...)...)
	}
	return NewServiceError("experience", op, "", err)
}

// readable loads the experience and checks the viewer may read it.
func (s *experienceServiceImpl) readable(
	ctx context.Context,
	viewer domain.Viewer,
	id uuid.UUID,
) (*domain.Experience, error) {
	e, err := s.stores.Experiences.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanReadExperience(viewer, e) {
		if e.HasPassword() {
			return nil, ErrPasswordRequired
		}
		return nil, domain.ErrPermissionDenied
	}
	return e, nil
}

// writable loads and locks the experience inside tx and checks authorship.
func writable(ctx context.Context, experiences store.ExperienceStore, viewer domain.Viewer, id uuid.UUID) (*domain.Experience, error) {
	if !viewer.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	e, err := experiences.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanWrite(viewer, e) {
		return nil, domain.ErrPermissionDenied
	}
	return e, nil
}

// Create implements ExperienceService.
func (s *experienceServiceImpl) Create(
	ctx context.Context,
	viewer domain.Viewer,
	in CreateExperienceInput,
) (*domain.Experience, error) {
	if !viewer.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	e, err := domain.NewExperience(viewer.ExplorerID, in.Title, in.Brief, in.Status, in.IsPublic, in.CreatedAt)
	if err != nil {
		return nil, err
	}

	err = store.Atomically(ctx, s.db, s.stores, func(ctx context.Context, stores store.Stores) error {
		if err := stores.Experiences.Create(ctx, e); err != nil {
			return err
		}
		if !in.MakeFeature {
			return nil
		}
		featured, err := domain.NewFeaturedExperience(viewer.ExplorerID, e)
		if err != nil {
			return err
		}
		return stores.Featured.Create(ctx, featured)
	})
	if err != nil {
		return nil, s.fail(ctx, "create", err, "explorer_id", viewer.ExplorerID)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("experience created",
		"experience_id", e.ID,
		"explorer_id", viewer.ExplorerID,
		"featured", in.MakeFeature)
	return e, nil
}

// Get implements ExperienceService.
func (s *experienceServiceImpl) Get(ctx context.Context, viewer domain.Viewer, id uuid.UUID) (*domain.Experience, error) {
	e, err := s.readable(ctx, viewer, id)
	if err != nil {
		return nil, s.fail(ctx, "get", err, "experience_id", id)
	}
	return e, nil
}

// GetBySearchTerm implements ExperienceService.
func (s *experienceServiceImpl) GetBySearchTerm(
	ctx context.Context,
	viewer domain.Viewer,
	term string,
) (*domain.Experience, error) {
	e, err := s.stores.Experiences.GetBySearchTerm(ctx, term)
	if err != nil {
		return nil, s.fail(ctx, "get_by_search_term", err, "search_term", term)
	}
	if !domain.CanReadExperience(viewer, e) {
		if e.HasPassword() {
			return nil, s.fail(ctx, "get_by_search_term", ErrPasswordRequired, "experience_id", e.ID)
		}
		return nil, s.fail(ctx, "get_by_search_term", domain.ErrPermissionDenied, "experience_id", e.ID)
	}
	return e, nil
}

// Update implements ExperienceService.
func (s *experienceServiceImpl) Update(
	ctx context.Context,
	viewer domain.Viewer,
	id uuid.UUID,
	changes domain.ExperienceChanges,
) (*domain.Experience, error) {
	var updated *domain.Experience
	err := store.Atomically(ctx, s.db, s.stores, func(ctx context.Context, stores store.Stores) error {
		prior, err := writable(ctx, stores.Experiences, viewer, id)
		if err != nil {
			return err
		}
		next, err := prior.WithChanges(changes)
		if err != nil {
			return err
		}

		var narratives []*domain.Narrative
		if prior.IsPublic && !next.IsPublic {
			narratives, err = stores.Narratives.ListByExperienceForUpdate(ctx, id)
			if err != nil {
				return err
			}
		}
		plan := domain.PlanExperienceCascade(prior, next, narratives)
		if err := applyCascade(ctx, stores.Narratives, stores.Galleries, plan); err != nil {
			return err
		}

		next.UpdatedAt = time.Now().UTC()
		if err := stores.Experiences.Update(ctx, next); err != nil {
			return err
		}
		updated = next
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, "update", err, "experience_id", id)
	}
	return updated, nil
}

// Delete implements ExperienceService.
func (s *experienceServiceImpl) Delete(ctx context.Context, viewer domain.Viewer, id uuid.UUID) error {
	err := store.Atomically(ctx, s.db, s.stores, func(ctx context.Context, stores store.Stores) error {
		if _, err := writable(ctx, stores.Experiences, viewer, id); err != nil {
			return err
		}
		if err := stores.Galleries.DeleteByOwner(ctx, domain.KindExperience, id); err != nil {
			return err
		}
		return stores.Experiences.Delete(ctx, id)
	})
	if err != nil {
		return s.fail(ctx, "delete", err, "experience_id", id)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("experience deleted", "experience_id", id)
	return nil
}

// SetPassword implements ExperienceService.
func (s *experienceServiceImpl) SetPassword(
	ctx context.Context,
	viewer domain.Viewer,
	id uuid.UUID,
	password string,
) error {
	if err := domain.ValidateExperiencePassword(password, s.minPasswordLength); err != nil {
		return err
	}
	hash, err := s.credentials.Hash(password)
	if err != nil {
		return s.fail(ctx, "set_password", err, "experience_id", id)
	}
	return s.savePassword(ctx, viewer, id, hash, "set_password")
}

// ClearPassword implements ExperienceService.
func (s *experienceServiceImpl) ClearPassword(ctx context.Context, viewer domain.Viewer, id uuid.UUID) error {
	return s.savePassword(ctx, viewer, id, "", "clear_password")
}

func (s *experienceServiceImpl) savePassword(
	ctx context.Context,
	viewer domain.Viewer,
	id uuid.UUID,
	hash, op string,
) error {
	err := store.Atomically(ctx, s.db, s.stores, func(ctx context.Context, stores store.Stores) error {
		experiences := stores.Experiences
		e, err := writable(ctx, experiences, viewer, id)
		if err != nil {
			return err
		}
		e.Password = hash
		e.UpdatedAt = time.Now().UTC()
		return experiences.Update(ctx, e)
	})
	if err != nil {
		return s.fail(ctx, op, err, "experience_id", id)
	}
	return nil
}

// Unlock implements ExperienceService.
func (s *experienceServiceImpl) Unlock(ctx context.Context, id uuid.UUID, password string) (*Grant, error) {
	e, err := s.stores.Experiences.GetByID(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, "unlock", err, "experience_id", id)
	}
	if !e.HasPassword() {
		return nil, ErrNotPasswordProtected
	}
	if err := s.credentials.Compare(e.Password, password); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("experience unlock failed", "experience_id", id)
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.GenerateGrant(ctx, e.ID)
	if err != nil {
		return nil, s.fail(ctx, "unlock", err, "experience_id", id)
	}
	return &Grant{ExperienceID: e.ID, Token: token, ExpiresAt: expiresAt}, nil
}

// AddComrade implements ExperienceService.
func (s *experienceServiceImpl) AddComrade(
	ctx context.Context,
	viewer domain.Viewer,
	id, explorerID uuid.UUID,
) (*domain.Experience, error) {
	var updated *domain.Experience
	err := store.Atomically(ctx, s.db, s.stores, func(ctx context.Context, stores store.Stores) error {
		e, err := writable(ctx, stores.Experiences, viewer, id)
		if err != nil {
			return err
		}
		if e.HasComrade(explorerID) {
			return store.ErrComradeExists
		}
		if _, err := stores.Explorers.GetByID(ctx, explorerID); err != nil {
			return err
		}
		if err := stores.Experiences.AddComrade(ctx, id, explorerID); err != nil {
			return err
		}
		e.ComradeIDs = append(e.ComradeIDs, explorerID)
		updated = e
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, "add_comrade", err, "experience_id", id, "comrade_id", explorerID)
	}
	return updated, nil
}

// RemoveComrade implements ExperienceService.
func (s *experienceServiceImpl) RemoveComrade(
	ctx context.Context,
	viewer domain.Viewer,
	id, explorerID uuid.UUID,
) error {
	err := store.Atomically(ctx, s.db, s.stores, func(ctx context.Context, stores store.Stores) error {
		experiences := stores.Experiences
		if !viewer.Authenticated() {
			return domain.ErrUnauthenticated
		}
		e, err := experiences.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !e.HasComrade(explorerID) {
			return store.ErrComradeNotFound
		}
		if !domain.CanRemoveComrade(viewer, e, explorerID) {
			return domain.ErrPermissionDenied
		}
		return experiences.RemoveComrade(ctx, id, explorerID)
	})
	if err != nil {
		return s.fail(ctx, "remove_comrade", err, "experience_id", id, "comrade_id", explorerID)
	}
	return nil
}

// ListComrades implements ExperienceService.
func (s *experienceServiceImpl) ListComrades(
	ctx context.Context,
	viewer domain.Viewer,
	id uuid.UUID,
) ([]*domain.Explorer, error) {
	e, err := s.readable(ctx, viewer, id)
	if err != nil {
		return nil, s.fail(ctx, "list_comrades", err, "experience_id", id)
	}
	ids := domain.Comrades(viewer, e)
	if len(ids) == 0 {
		return []*domain.Explorer{}, nil
	}
	explorers, err := s.stores.Explorers.ListByIDs(ctx, ids)
	if err != nil {
		return nil, s.fail(ctx, "list_comrades", err, "experience_id", id)
	}
	return explorers, nil
}

// ListByExplorer implements ExperienceService.
func (s *experienceServiceImpl) ListByExplorer(
	ctx context.Context,
	viewer domain.Viewer,
	explorerID uuid.UUID,
) ([]*domain.Experience, error) {
	all, err := s.stores.Experiences.ListByExplorer(ctx, explorerID, !viewer.Authenticated())
	if err != nil {
		return nil, s.fail(ctx, "list_by_explorer", err, "explorer_id", explorerID)
	}
	visible := make([]*domain.Experience, 0, len(all))
	for _, e := range all {
		if domain.CanReadExperience(viewer, e) {
			visible = append(visible, e)
		}
	}
	return visible, nil
}

// Feature implements ExperienceService.
func (s *experienceServiceImpl) Feature(
	ctx context.Context,
	viewer domain.Viewer,
	id uuid.UUID,
) (*domain.FeaturedExperience, error) {
	if !viewer.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	e, err := s.stores.Experiences.GetByID(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, "feature", err, "experience_id", id)
	}
	featured, err := domain.NewFeaturedExperience(viewer.ExplorerID, e)
	if err != nil {
		return nil, s.fail(ctx, "feature", err, "experience_id", id)
	}
	if err := s.stores.Featured.Create(ctx, featured); err != nil {
		return nil, s.fail(ctx, "feature", err, "experience_id", id)
	}
	return featured, nil
}

// LatestFeatured implements ExperienceService. A featured experience the
// viewer may not read is reported as not found.
func (s *experienceServiceImpl) LatestFeatured(
	ctx context.Context,
	viewer domain.Viewer,
	explorerID uuid.UUID,
) (*domain.Experience, error) {
	featured, err := s.stores.Featured.Latest(ctx, explorerID)
	if err != nil {
		return nil, s.fail(ctx, "latest_featured", err, "explorer_id", explorerID)
	}
	e, err := s.stores.Experiences.GetByID(ctx, featured.ExperienceID)
	if err != nil {
		if errors.Is(err, store.ErrExperienceNotFound) {
			err = store.ErrFeaturedNotFound
		}
		return nil, s.fail(ctx, "latest_featured", err, "explorer_id", explorerID)
	}
	if !domain.CanReadExperience(viewer, e) {
		return nil, store.ErrFeaturedNotFound
	}
	return e, nil
}

// ListGalleries implements ExperienceService.
func (s *experienceServiceImpl) ListGalleries(
	ctx context.Context,
	viewer domain.Viewer,
	id uuid.UUID,
) ([]*domain.Gallery, error) {
	e, err := s.readable(ctx, viewer, id)
	if err != nil {
		return nil, s.fail(ctx, "list_galleries", err, "experience_id", id)
	}
	seeAll := domain.CanSeeAllNarratives(viewer, e)

	ids, err := s.stores.Narratives.GalleryIDsByExperience(ctx, id, !seeAll)
	if err != nil {
		return nil, s.fail(ctx, "list_galleries", err, "experience_id", id)
	}
	if e.GalleryID != nil {
		ids = append([]uuid.UUID{*e.GalleryID}, ids...)
	}
	if len(ids) == 0 {
		return []*domain.Gallery{}, nil
	}
	galleries, err := s.stores.Galleries.ListByIDs(ctx, ids)
	if err != nil {
		return nil, s.fail(ctx, "list_galleries", err, "experience_id", id)
	}
	if seeAll {
		return galleries, nil
	}
	visible := galleries[:0]
	for _, g := range galleries {
		if g.IsPublic {
			visible = append(visible, g)
		}
	}
	return visible, nil
}

// LatestPublicNarrative implements ExperienceService.
func (s *experienceServiceImpl) LatestPublicNarrative(
	ctx context.Context,
	viewer domain.Viewer,
	id uuid.UUID,
) (*domain.Narrative, error) {
	if _, err := s.readable(ctx, viewer, id); err != nil {
		return nil, s.fail(ctx, "latest_public_narrative", err, "experience_id", id)
	}
	filter := store.NarrativeFilter{ExperienceID: &id, PublicOnly: true}
	narratives, err := s.stores.Narratives.List(ctx, filter, 1, 0)
	if err != nil {
		return nil, s.fail(ctx, "latest_public_narrative", err, "experience_id", id)
	}
	if len(narratives) == 0 {
		return nil, store.ErrNarrativeNotFound
	}
	return narratives[0], nil
}
