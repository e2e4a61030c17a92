package store

import (
	"context"
	"database/sql"
)

// DBTX is the query surface the postgres stores run on. Both *sql.DB and
// *sql.Tx satisfy it, so one store value serves reads outside a transaction
// and, through WithTx, writes inside one.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)

// Stores bundles every repository an Acressity write may touch. A visibility
// cascade crosses experiences, narratives and galleries, so the bundle is
// bound to a transaction as a unit.
type Stores struct {
	Explorers   ExplorerStore
	Experiences ExperienceStore
	Narratives  NarrativeStore
	Galleries   GalleryStore
	Featured    FeaturedStore
}

// Missing names the first unset store, or returns "" when all are set.
func (s Stores) Missing() string {
	switch {
	case s.Explorers == nil:
		return "explorers"
	case s.Experiences == nil:
		return "experiences"
	case s.Narratives == nil:
		return "narratives"
	case s.Galleries == nil:
		return "galleries"
	case s.Featured == nil:
		return "featured"
	}
	return ""
}

// WithTx binds every store to tx.
func (s Stores) WithTx(tx *sql.Tx) Stores {
	return Stores{
		Explorers:   s.Explorers.WithTx(tx),
		Experiences: s.Experiences.WithTx(tx),
		Narratives:  s.Narratives.WithTx(tx),
		Galleries:   s.Galleries.WithTx(tx),
		Featured:    s.Featured.WithTx(tx),
	}
}
