package store

import (
	"context"
	"database/sql"

	"github.com/acressity/acressity-api/internal/domain"
	"github.com/google/uuid"
)

// ExplorerStore defines persistence for explorer accounts.
type ExplorerStore interface {
	// Create saves a new explorer.
	// Returns ErrEmailExists or ErrTrailnameExists on conflicts. A trailname
	// equal to an existing experience search term is also ErrTrailnameExists.
	Create(ctx context.Context, explorer *domain.Explorer) error

	// GetByID returns ErrExplorerNotFound if the explorer does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Explorer, error)

	// GetByEmail returns ErrExplorerNotFound if no explorer has the email.
	GetByEmail(ctx context.Context, email string) (*domain.Explorer, error)

	// UpdatePassword replaces the stored hash.
	UpdatePassword(ctx context.Context, id uuid.UUID, hashedPassword string) error

	// ListByIDs returns the explorers that exist among ids, in no particular order.
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Explorer, error)

	// WithTx returns a store bound to tx.
	WithTx(tx *sql.Tx) ExplorerStore
}
