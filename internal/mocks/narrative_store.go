package mocks

import (
	"context"
	"database/sql"
	"sort"

	"github.com/acressity/acressity-api/internal/domain"
	"github.com/acressity/acressity-api/internal/store"
	"github.com/google/uuid"
)

// MockNarrativeStore implements store.NarrativeStore in memory.
type MockNarrativeStore struct {
	CreateFn      func(ctx context.Context, narrative *domain.Narrative) error
	UpdateFn      func(ctx context.Context, narrative *domain.Narrative) error
	MakePrivateFn func(ctx context.Context, ids []uuid.UUID) error
	CountFn       func(ctx context.Context, filter store.NarrativeFilter) (int, error)

	Narratives map[uuid.UUID]*domain.Narrative
	// Experiences resolves parents for filters with VisibleTo. Share the
	// map of a MockExperienceStore to keep the two in step.
	Experiences map[uuid.UUID]*domain.Experience
	// MadePrivate records the ids passed to MakePrivate.
	MadePrivate []uuid.UUID
}

var _ store.NarrativeStore = (*MockNarrativeStore)(nil)

// NewMockNarrativeStore creates a store holding narratives.
func NewMockNarrativeStore(narratives ...*domain.Narrative) *MockNarrativeStore {
	m := &MockNarrativeStore{Narratives: make(map[uuid.UUID]*domain.Narrative)}
	for _, n := range narratives {
		copied := *n
		m.Narratives[n.ID] = &copied
	}
	return m
}

func (m *MockNarrativeStore) get(id uuid.UUID) (*domain.Narrative, error) {
	n, ok := m.Narratives[id]
	if !ok {
		return nil, store.ErrNarrativeNotFound
	}
	copied := *n
	return &copied, nil
}

// Create implements store.NarrativeStore.
func (m *MockNarrativeStore) Create(ctx context.Context, narrative *domain.Narrative) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, narrative)
	}
	copied := *narrative
	m.Narratives[narrative.ID] = &copied
	return nil
}

// GetByID implements store.NarrativeStore.
func (m *MockNarrativeStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Narrative, error) {
	return m.get(id)
}

// GetForUpdate implements store.NarrativeStore.
func (m *MockNarrativeStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Narrative, error) {
	return m.get(id)
}

// Update implements store.NarrativeStore.
func (m *MockNarrativeStore) Update(ctx context.Context, narrative *domain.Narrative) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, narrative)
	}
	if _, ok := m.Narratives[narrative.ID]; !ok {
		return store.ErrNarrativeNotFound
	}
	copied := *narrative
	m.Narratives[narrative.ID] = &copied
	return nil
}

// Delete implements store.NarrativeStore.
func (m *MockNarrativeStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.Narratives[id]; !ok {
		return store.ErrNarrativeNotFound
	}
	delete(m.Narratives, id)
	return nil
}

// ListByExperienceForUpdate implements store.NarrativeStore.
func (m *MockNarrativeStore) ListByExperienceForUpdate(
	ctx context.Context,
	experienceID uuid.UUID,
) ([]*domain.Narrative, error) {
	return m.sorted(store.NarrativeFilter{ExperienceID: &experienceID}), nil
}

// MakePrivate implements store.NarrativeStore.
func (m *MockNarrativeStore) MakePrivate(ctx context.Context, ids []uuid.UUID) error {
	if m.MakePrivateFn != nil {
		return m.MakePrivateFn(ctx, ids)
	}
	m.MadePrivate = append(m.MadePrivate, ids...)
	for _, id := range ids {
		if n, ok := m.Narratives[id]; ok {
			n.IsPublic = false
		}
	}
	return nil
}

// AttachGallery implements store.NarrativeStore.
func (m *MockNarrativeStore) AttachGallery(ctx context.Context, id, galleryID uuid.UUID) error {
	n, ok := m.Narratives[id]
	if !ok {
		return store.ErrNarrativeNotFound
	}
	n.GalleryID = &galleryID
	return nil
}

// Count implements store.NarrativeStore.
func (m *MockNarrativeStore) Count(ctx context.Context, filter store.NarrativeFilter) (int, error) {
	if m.CountFn != nil {
		return m.CountFn(ctx, filter)
	}
	return len(m.sorted(filter)), nil
}

// List implements store.NarrativeStore, newest first.
func (m *MockNarrativeStore) List(
	ctx context.Context,
	filter store.NarrativeFilter,
	limit, offset int,
) ([]*domain.Narrative, error) {
	all := m.sorted(filter)
	if offset >= len(all) {
		return []*domain.Narrative{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

// Adjacent implements store.NarrativeStore.
func (m *MockNarrativeStore) Adjacent(
	ctx context.Context,
	n *domain.Narrative,
	publicOnly bool,
) (previous, next *uuid.UUID, err error) {
	siblings := m.sorted(store.NarrativeFilter{ExperienceID: &n.ExperienceID, PublicOnly: publicOnly})
	for _, s := range siblings {
		id := s.ID
		switch {
		case s.CreatedAt.Before(n.CreatedAt):
			if previous == nil {
				previous = &id
			}
		case s.CreatedAt.After(n.CreatedAt):
			next = &id
		}
	}
	return previous, next, nil
}

// GalleryIDsByExperience implements store.NarrativeStore.
func (m *MockNarrativeStore) GalleryIDsByExperience(
	ctx context.Context,
	experienceID uuid.UUID,
	publicOnly bool,
) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	for _, n := range m.sorted(store.NarrativeFilter{ExperienceID: &experienceID, PublicOnly: publicOnly}) {
		if n.GalleryID != nil {
			ids = append(ids, *n.GalleryID)
		}
	}
	return ids, nil
}

// WithTx implements store.NarrativeStore.
func (m *MockNarrativeStore) WithTx(tx *sql.Tx) store.NarrativeStore {
	return m
}

// sorted returns copies matching filter ordered by created_at descending.
func (m *MockNarrativeStore) sorted(filter store.NarrativeFilter) []*domain.Narrative {
	out := []*domain.Narrative{}
	for _, n := range m.Narratives {
		if filter.AuthorID != nil && n.AuthorID != *filter.AuthorID {
			continue
		}
		if filter.ExperienceID != nil && n.ExperienceID != *filter.ExperienceID {
			continue
		}
		if filter.PublicOnly && !n.IsPublic {
			continue
		}
		if v := filter.VisibleTo; v != nil {
			e := m.Experiences[n.ExperienceID]
			if e == nil || !(e.IsPublic || domain.CanSeeAllNarratives(*v, e)) {
				continue
			}
		}
		copied := *n
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}
