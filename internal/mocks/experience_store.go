package mocks

import (
	"context"
	"database/sql"
	"sort"

	"github.com/acressity/acressity-api/internal/domain"
	"github.com/acressity/acressity-api/internal/store"
	"github.com/google/uuid"
)

// MockExperienceStore implements store.ExperienceStore in memory.
type MockExperienceStore struct {
	CreateFn         func(ctx context.Context, experience *domain.Experience) error
	GetByIDFn        func(ctx context.Context, id uuid.UUID) (*domain.Experience, error)
	UpdateFn         func(ctx context.Context, experience *domain.Experience) error
	DeleteFn         func(ctx context.Context, id uuid.UUID) error
	AddComradeFn     func(ctx context.Context, experienceID, explorerID uuid.UUID) error
	ListByExplorerFn func(ctx context.Context, explorerID uuid.UUID, publicOnly bool) ([]*domain.Experience, error)

	Experiences map[uuid.UUID]*domain.Experience
	// LockedForEdit records every GetForUpdate call in order.
	LockedForEdit []uuid.UUID
}

var _ store.ExperienceStore = (*MockExperienceStore)(nil)

// NewMockExperienceStore creates a store holding experiences.
func NewMockExperienceStore(experiences ...*domain.Experience) *MockExperienceStore {
	m := &MockExperienceStore{Experiences: make(map[uuid.UUID]*domain.Experience)}
	for _, e := range experiences {
		m.Experiences[e.ID] = copyExperience(e)
	}
	return m
}

func copyExperience(e *domain.Experience) *domain.Experience {
	c := *e
	c.ComradeIDs = append([]uuid.UUID(nil), e.ComradeIDs...)
	return &c
}

// Create implements store.ExperienceStore.
func (m *MockExperienceStore) Create(ctx context.Context, experience *domain.Experience) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, experience)
	}
	if experience.SearchTerm != nil {
		if _, err := m.GetBySearchTerm(ctx, *experience.SearchTerm); err == nil {
			return store.ErrSearchTermExists
		}
	}
	m.Experiences[experience.ID] = copyExperience(experience)
	return nil
}

// GetByID implements store.ExperienceStore.
func (m *MockExperienceStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Experience, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	e, ok := m.Experiences[id]
	if !ok {
		return nil, store.ErrExperienceNotFound
	}
	return copyExperience(e), nil
}

// GetForUpdate implements store.ExperienceStore and records the lock.
func (m *MockExperienceStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Experience, error) {
	m.LockedForEdit = append(m.LockedForEdit, id)
	return m.GetByID(ctx, id)
}

// GetBySearchTerm implements store.ExperienceStore.
func (m *MockExperienceStore) GetBySearchTerm(ctx context.Context, term string) (*domain.Experience, error) {
	for _, e := range m.Experiences {
		if e.SearchTerm != nil && *e.SearchTerm == term {
			return copyExperience(e), nil
		}
	}
	return nil, store.ErrExperienceNotFound
}

// Update implements store.ExperienceStore.
func (m *MockExperienceStore) Update(ctx context.Context, experience *domain.Experience) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, experience)
	}
	if _, ok := m.Experiences[experience.ID]; !ok {
		return store.ErrExperienceNotFound
	}
	m.Experiences[experience.ID] = copyExperience(experience)
	return nil
}

// AttachGallery implements store.ExperienceStore.
func (m *MockExperienceStore) AttachGallery(ctx context.Context, id, galleryID uuid.UUID) error {
	e, ok := m.Experiences[id]
	if !ok {
		return store.ErrExperienceNotFound
	}
	e.GalleryID = &galleryID
	return nil
}

// Delete implements store.ExperienceStore.
func (m *MockExperienceStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	if _, ok := m.Experiences[id]; !ok {
		return store.ErrExperienceNotFound
	}
	delete(m.Experiences, id)
	return nil
}

// AddComrade implements store.ExperienceStore.
func (m *MockExperienceStore) AddComrade(ctx context.Context, experienceID, explorerID uuid.UUID) error {
	if m.AddComradeFn != nil {
		return m.AddComradeFn(ctx, experienceID, explorerID)
	}
	e, ok := m.Experiences[experienceID]
	if !ok {
		return store.ErrExperienceNotFound
	}
	if e.HasComrade(explorerID) {
		return store.ErrComradeExists
	}
	e.ComradeIDs = append(e.ComradeIDs, explorerID)
	return nil
}

// RemoveComrade implements store.ExperienceStore.
func (m *MockExperienceStore) RemoveComrade(ctx context.Context, experienceID, explorerID uuid.UUID) error {
	e, ok := m.Experiences[experienceID]
	if !ok {
		return store.ErrExperienceNotFound
	}
	for i, id := range e.ComradeIDs {
		if id == explorerID {
			e.ComradeIDs = append(e.ComradeIDs[:i], e.ComradeIDs[i+1:]...)
			return nil
		}
	}
	return store.ErrComradeNotFound
}

// ListByExplorer implements store.ExperienceStore, newest first.
func (m *MockExperienceStore) ListByExplorer(
	ctx context.Context,
	explorerID uuid.UUID,
	publicOnly bool,
) ([]*domain.Experience, error) {
	if m.ListByExplorerFn != nil {
		return m.ListByExplorerFn(ctx, explorerID, publicOnly)
	}
	out := []*domain.Experience{}
	for _, e := range m.Experiences {
		if publicOnly && !e.IsPublic {
			continue
		}
		if e.AuthorID == explorerID || e.HasComrade(explorerID) {
			out = append(out, copyExperience(e))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// WithTx implements store.ExperienceStore.
func (m *MockExperienceStore) WithTx(tx *sql.Tx) store.ExperienceStore {
	return m
}

// MockFeaturedStore implements store.FeaturedStore in memory.
type MockFeaturedStore struct {
	CreateFn func(ctx context.Context, featured *domain.FeaturedExperience) error

	Featured []*domain.FeaturedExperience
}

var _ store.FeaturedStore = (*MockFeaturedStore)(nil)

// Create implements store.FeaturedStore.
func (m *MockFeaturedStore) Create(ctx context.Context, featured *domain.FeaturedExperience) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, featured)
	}
	m.Featured = append(m.Featured, featured)
	return nil
}

// Latest implements store.FeaturedStore. Later rows win ties.
func (m *MockFeaturedStore) Latest(ctx context.Context, explorerID uuid.UUID) (*domain.FeaturedExperience, error) {
	var latest *domain.FeaturedExperience
	for _, f := range m.Featured {
		if f.ExplorerID != explorerID {
			continue
		}
		if latest == nil || !f.FeaturedAt.Before(latest.FeaturedAt) {
			latest = f
		}
	}
	if latest == nil {
		return nil, store.ErrFeaturedNotFound
	}
	return latest, nil
}

// WithTx implements store.FeaturedStore.
func (m *MockFeaturedStore) WithTx(tx *sql.Tx) store.FeaturedStore {
	return m
}
