package mocks

import (
	"context"
	"database/sql"

	"github.com/acressity/acressity-api/internal/domain"
	"github.com/acressity/acressity-api/internal/store"
	"github.com/google/uuid"
)

// MockGalleryStore implements store.GalleryStore in memory.
type MockGalleryStore struct {
	CreateFn        func(ctx context.Context, gallery *domain.Gallery) error
	SetVisibilityFn func(ctx context.Context, id uuid.UUID, isPublic bool) error

	Galleries map[uuid.UUID]*domain.Gallery
	// DeletedOwners records the owners passed to DeleteByOwner.
	DeletedOwners []uuid.UUID
}

var _ store.GalleryStore = (*MockGalleryStore)(nil)

// NewMockGalleryStore creates a store holding galleries.
func NewMockGalleryStore(galleries ...*domain.Gallery) *MockGalleryStore {
	m := &MockGalleryStore{Galleries: make(map[uuid.UUID]*domain.Gallery)}
	for _, g := range galleries {
		copied := *g
		m.Galleries[g.ID] = &copied
	}
	return m
}

// Create implements store.GalleryStore.
func (m *MockGalleryStore) Create(ctx context.Context, gallery *domain.Gallery) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, gallery)
	}
	for _, g := range m.Galleries {
		if g.OwnerKind == gallery.OwnerKind && g.OwnerID == gallery.OwnerID {
			return store.ErrDuplicate
		}
	}
	copied := *gallery
	m.Galleries[gallery.ID] = &copied
	return nil
}

// GetByID implements store.GalleryStore.
func (m *MockGalleryStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Gallery, error) {
	g, ok := m.Galleries[id]
	if !ok {
		return nil, store.ErrGalleryNotFound
	}
	copied := *g
	return &copied, nil
}

// SetVisibility implements store.GalleryStore. Missing galleries are ignored.
func (m *MockGalleryStore) SetVisibility(ctx context.Context, id uuid.UUID, isPublic bool) error {
	if m.SetVisibilityFn != nil {
		return m.SetVisibilityFn(ctx, id, isPublic)
	}
	if g, ok := m.Galleries[id]; ok {
		g.IsPublic = isPublic
	}
	return nil
}

// ListByIDs implements store.GalleryStore.
func (m *MockGalleryStore) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Gallery, error) {
	out := make([]*domain.Gallery, 0, len(ids))
	for _, id := range ids {
		if g, ok := m.Galleries[id]; ok {
			copied := *g
			out = append(out, &copied)
		}
	}
	return out, nil
}

// DeleteByOwner implements store.GalleryStore. Only galleries owned directly
// by ownerID are removed.
func (m *MockGalleryStore) DeleteByOwner(ctx context.Context, kind domain.EntityKind, ownerID uuid.UUID) error {
	m.DeletedOwners = append(m.DeletedOwners, ownerID)
	for id, g := range m.Galleries {
		if g.OwnerKind == kind && g.OwnerID == ownerID {
			delete(m.Galleries, id)
		}
	}
	return nil
}

// WithTx implements store.GalleryStore.
func (m *MockGalleryStore) WithTx(tx *sql.Tx) store.GalleryStore {
	return m
}
