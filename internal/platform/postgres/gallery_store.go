package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/acressity/acressity-api/internal/domain"
	"github.com/acressity/acressity-api/internal/platform/logger"
	"github.com/acressity/acressity-api/internal/store"
	"github.com/google/uuid"
)

// PostgresGalleryStore implements store.GalleryStore.
type PostgresGalleryStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresGalleryStore creates a gallery store on db.
func NewPostgresGalleryStore(db store.DBTX, logger *slog.Logger) *PostgresGalleryStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresGalleryStore{
		db:     db,
		logger: logger.With(slog.String("component", "gallery_store")),
	}
}

var _ store.GalleryStore = (*PostgresGalleryStore)(nil)

const galleryColumns = `id, owner_kind, owner_id, title, is_public, created_at, updated_at`

func scanGallery(row interface{ Scan(...any) error }) (*domain.Gallery, error) {
	var (
		g    domain.Gallery
		kind string
	)
	if err := row.Scan(&g.ID, &kind, &g.OwnerID, &g.Title, &g.IsPublic, &g.CreatedAt, &g.UpdatedAt); err != nil {
		return nil, err
	}
	g.OwnerKind = domain.EntityKind(kind)
	return &g, nil
}

// Create implements store.GalleryStore.Create.
func (s *PostgresGalleryStore) Create(ctx context.Context, g *domain.Gallery) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO galleries (`+galleryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		g.ID, string(g.OwnerKind), g.OwnerID, g.Title, g.IsPublic, g.CreatedAt, g.UpdatedAt)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to create gallery",
			slog.String("owner_kind", g.OwnerKind.String()),
			slog.String("owner_id", g.OwnerID.String()),
			slog.String("error", err.Error()))
		return MapError(err, nil)
	}
	return nil
}

// GetByID implements store.GalleryStore.GetByID.
func (s *PostgresGalleryStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Gallery, error) {
	g, err := scanGallery(s.db.QueryRowContext(ctx,
		`SELECT `+galleryColumns+` FROM galleries WHERE id = $1`, id))
	if err != nil {
		return nil, MapError(err, store.ErrGalleryNotFound)
	}
	return g, nil
}

// SetVisibility implements store.GalleryStore.SetVisibility.
func (s *PostgresGalleryStore) SetVisibility(ctx context.Context, id uuid.UUID, isPublic bool) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE galleries SET is_public = $1, updated_at = NOW() WHERE id = $2`, isPublic, id)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to set gallery visibility",
			slog.String("gallery_id", id.String()), slog.String("error", err.Error()))
		return MapError(err, nil)
	}
	return nil
}

// ListByIDs implements store.GalleryStore.ListByIDs.
func (s *PostgresGalleryStore) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Gallery, error) {
	if len(ids) == 0 {
		return []*domain.Gallery{}, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+galleryColumns+` FROM galleries WHERE id = `+anyIDs+` ORDER BY created_at`,
		joinIDs(ids))
	if err != nil {
		return nil, MapError(err, nil)
	}
	defer func() { _ = rows.Close() }()

	out := make([]*domain.Gallery, 0, len(ids))
	for rows.Next() {
		g, err := scanGallery(rows)
		if err != nil {
			return nil, MapError(err, nil)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err, nil)
	}
	return out, nil
}

// DeleteByOwner implements store.GalleryStore.DeleteByOwner.
func (s *PostgresGalleryStore) DeleteByOwner(ctx context.Context, kind domain.EntityKind, ownerID uuid.UUID) error {
	query := `DELETE FROM galleries WHERE owner_kind = $1 AND owner_id = $2`
	if kind == domain.KindExperience {
		query = `DELETE FROM galleries
			WHERE (owner_kind = $1 AND owner_id = $2)
			OR (owner_kind = 'narrative' AND owner_id IN (
				SELECT id FROM narratives WHERE experience_id = $2))`
	}
	if _, err := s.db.ExecContext(ctx, query, string(kind), ownerID); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete galleries",
			slog.String("owner_kind", kind.String()),
			slog.String("owner_id", ownerID.String()),
			slog.String("error", err.Error()))
		return MapError(err, nil)
	}
	return nil
}

// WithTx implements store.GalleryStore.WithTx.
func (s *PostgresGalleryStore) WithTx(tx *sql.Tx) store.GalleryStore {
	return &PostgresGalleryStore{db: tx, logger: s.logger}
}
