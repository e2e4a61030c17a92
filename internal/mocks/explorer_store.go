package mocks

import (
	"context"
	"database/sql"
	"strings"

	"github.com/acressity/acressity-api/internal/domain"
	"github.com/acressity/acressity-api/internal/store"
	"github.com/google/uuid"
)

// MockExplorerStore implements store.ExplorerStore in memory.
type MockExplorerStore struct {
	CreateFn         func(ctx context.Context, explorer *domain.Explorer) error
	GetByIDFn        func(ctx context.Context, id uuid.UUID) (*domain.Explorer, error)
	GetByEmailFn     func(ctx context.Context, email string) (*domain.Explorer, error)
	UpdatePasswordFn func(ctx context.Context, id uuid.UUID, hashedPassword string) error

	Explorers map[uuid.UUID]*domain.Explorer
}

var _ store.ExplorerStore = (*MockExplorerStore)(nil)

// NewMockExplorerStore creates an empty store.
func NewMockExplorerStore(explorers ...*domain.Explorer) *MockExplorerStore {
	m := &MockExplorerStore{Explorers: make(map[uuid.UUID]*domain.Explorer)}
	for _, e := range explorers {
		m.Explorers[e.ID] = e
	}
	return m
}

// Create implements store.ExplorerStore.
func (m *MockExplorerStore) Create(ctx context.Context, explorer *domain.Explorer) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, explorer)
	}
	if err := explorer.Validate(); err != nil {
		return store.ErrInvalidEntity
	}
	for _, e := range m.Explorers {
		if strings.EqualFold(e.Email, explorer.Email) {
			return store.ErrEmailExists
		}
		if e.Trailname == explorer.Trailname {
			return store.ErrTrailnameExists
		}
	}
	explorer.Email = strings.ToLower(explorer.Email)
	copied := *explorer
	m.Explorers[explorer.ID] = &copied
	return nil
}

// GetByID implements store.ExplorerStore.
func (m *MockExplorerStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Explorer, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	e, ok := m.Explorers[id]
	if !ok {
		return nil, store.ErrExplorerNotFound
	}
	copied := *e
	return &copied, nil
}

// GetByEmail implements store.ExplorerStore.
func (m *MockExplorerStore) GetByEmail(ctx context.Context, email string) (*domain.Explorer, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	for _, e := range m.Explorers {
		if strings.EqualFold(e.Email, email) {
			copied := *e
			return &copied, nil
		}
	}
	return nil, store.ErrExplorerNotFound
}

// UpdatePassword implements store.ExplorerStore.
func (m *MockExplorerStore) UpdatePassword(ctx context.Context, id uuid.UUID, hashedPassword string) error {
	if m.UpdatePasswordFn != nil {
		return m.UpdatePasswordFn(ctx, id, hashedPassword)
	}
	e, ok := m.Explorers[id]
	if !ok {
		return store.ErrExplorerNotFound
	}
	e.HashedPassword = hashedPassword
	return nil
}

// ListByIDs implements store.ExplorerStore. Unknown ids are skipped.
func (m *MockExplorerStore) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Explorer, error) {
	out := make([]*domain.Explorer, 0, len(ids))
	for _, id := range ids {
		if e, ok := m.Explorers[id]; ok {
			copied := *e
			out = append(out, &copied)
		}
	}
	return out, nil
}

// WithTx implements store.ExplorerStore.
func (m *MockExplorerStore) WithTx(tx *sql.Tx) store.ExplorerStore {
	return m
}
