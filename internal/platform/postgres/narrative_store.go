package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/acressity/acressity-api/internal/domain"
	"github.com/acressity/acressity-api/internal/platform/logger"
	"github.com/acressity/acressity-api/internal/store"
	"github.com/google/uuid"
)

// PostgresNarrativeStore implements store.NarrativeStore.
type PostgresNarrativeStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresNarrativeStore creates a narrative store on db.
func NewPostgresNarrativeStore(db store.DBTX, logger *slog.Logger) *PostgresNarrativeStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresNarrativeStore{
		db:     db,
		logger: logger.With(slog.String("component", "narrative_store")),
	}
}

var _ store.NarrativeStore = (*PostgresNarrativeStore)(nil)

const narrativeColumns = `id, experience_id, author_id, title, body, category, is_public, gallery_id, created_at, updated_at`

func scanNarrative(row interface{ Scan(...any) error }) (*domain.Narrative, error) {
	var (
		n         domain.Narrative
		galleryID uuid.NullUUID
	)
	err := row.Scan(&n.ID, &n.ExperienceID, &n.AuthorID, &n.Title, &n.Body, &n.Category,
		&n.IsPublic, &galleryID, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if galleryID.Valid {
		id := galleryID.UUID
		n.GalleryID = &id
	}
	return &n, nil
}

func (s *PostgresNarrativeStore) scanAll(rows *sql.Rows) ([]*domain.Narrative, error) {
	defer func() { _ = rows.Close() }()
	out := []*domain.Narrative{}
	for rows.Next() {
		n, err := scanNarrative(rows)
		if err != nil {
			return nil, MapError(err, nil)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err, nil)
	}
	return out, nil
}

// Create implements store.NarrativeStore.Create.
// Returns store.ErrInvalidEntity if the experience or author does not exist.
func (s *PostgresNarrativeStore) Create(ctx context.Context, n *domain.Narrative) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := n.Validate(); err != nil {
		log.Warn("narrative validation failed during create", slog.String("error", err.Error()))
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO narratives (`+narrativeColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		n.ID, n.ExperienceID, n.AuthorID, n.Title, n.Body, n.Category, n.IsPublic,
		nullUUID(n.GalleryID), n.CreatedAt, n.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create narrative",
			slog.String("narrative_id", n.ID.String()),
			slog.String("experience_id", n.ExperienceID.String()),
			slog.String("error", err.Error()))
		return MapError(err, nil)
	}

	log.Info("narrative created",
		slog.String("narrative_id", n.ID.String()),
		slog.String("experience_id", n.ExperienceID.String()))
	return nil
}

// GetByID implements store.NarrativeStore.GetByID.
func (s *PostgresNarrativeStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Narrative, error) {
	return s.get(ctx, `SELECT `+narrativeColumns+` FROM narratives WHERE id = $1`, id)
}

// GetForUpdate implements store.NarrativeStore.GetForUpdate.
func (s *PostgresNarrativeStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Narrative, error) {
	return s.get(ctx, `SELECT `+narrativeColumns+` FROM narratives WHERE id = $1 FOR UPDATE`, id)
}

func (s *PostgresNarrativeStore) get(ctx context.Context, query string, id uuid.UUID) (*domain.Narrative, error) {
	n, err := scanNarrative(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		mapped := MapError(err, store.ErrNarrativeNotFound)
		if !store.IsNotFoundError(mapped) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to get narrative",
				slog.String("narrative_id", id.String()), slog.String("error", err.Error()))
		}
		return nil, mapped
	}
	return n, nil
}

// Update implements store.NarrativeStore.Update.
func (s *PostgresNarrativeStore) Update(ctx context.Context, n *domain.Narrative) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := n.Validate(); err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx, `
		UPDATE narratives
		SET title = $1, body = $2, category = $3, is_public = $4, updated_at = $5
		WHERE id = $6`,
		n.Title, n.Body, n.Category, n.IsPublic, n.UpdatedAt, n.ID)
	if err != nil {
		log.Error("failed to update narrative",
			slog.String("narrative_id", n.ID.String()), slog.String("error", err.Error()))
		return MapError(err, nil)
	}
	return CheckRowsAffected(result, store.ErrNarrativeNotFound)
}

// Delete implements store.NarrativeStore.Delete.
func (s *PostgresNarrativeStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM narratives WHERE id = $1`, id)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete narrative",
			slog.String("narrative_id", id.String()), slog.String("error", err.Error()))
		return MapError(err, nil)
	}
	return CheckRowsAffected(result, store.ErrNarrativeNotFound)
}

// ListByExperienceForUpdate implements store.NarrativeStore.ListByExperienceForUpdate.
func (s *PostgresNarrativeStore) ListByExperienceForUpdate(
	ctx context.Context,
	experienceID uuid.UUID,
) ([]*domain.Narrative, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+narrativeColumns+` FROM narratives
		WHERE experience_id = $1
		ORDER BY created_at DESC
		FOR UPDATE`, experienceID)
	if err != nil {
		return nil, MapError(err, nil)
	}
	return s.scanAll(rows)
}

// MakePrivate implements store.NarrativeStore.MakePrivate.
func (s *PostgresNarrativeStore) MakePrivate(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE narratives SET is_public = FALSE, updated_at = NOW() WHERE id = `+anyIDs,
		joinIDs(ids))
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to hide narratives",
			slog.Int("count", len(ids)), slog.String("error", err.Error()))
		return MapError(err, nil)
	}
	return nil
}

// AttachGallery implements store.NarrativeStore.AttachGallery.
func (s *PostgresNarrativeStore) AttachGallery(ctx context.Context, id, galleryID uuid.UUID) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE narratives SET gallery_id = $1 WHERE id = $2`, galleryID, id)
	if err != nil {
		return MapError(err, nil)
	}
	return CheckRowsAffected(result, store.ErrNarrativeNotFound)
}

// narrativeWhere builds the WHERE clause and args for filter.
func narrativeWhere(filter store.NarrativeFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if filter.AuthorID != nil {
		args = append(args, *filter.AuthorID)
		conds = append(conds, fmt.Sprintf("author_id = $%d", len(args)))
	}
	if filter.ExperienceID != nil {
		args = append(args, *filter.ExperienceID)
		conds = append(conds, fmt.Sprintf("experience_id = $%d", len(args)))
	}
	if filter.PublicOnly {
		conds = append(conds, "is_public")
	}
	if v := filter.VisibleTo; v != nil {
		args = append(args, v.ExplorerID, joinIDs(v.Grants))
		viewer, grants := len(args)-1, len(args)
		conds = append(conds, fmt.Sprintf(`experience_id IN (
			SELECT x.id FROM experiences x
			WHERE x.is_public OR x.author_id = $%[1]d
			OR x.id = ANY(string_to_array(NULLIF($%[2]d, ''), ',')::uuid[])
			OR EXISTS (SELECT 1 FROM experience_comrades c
				WHERE c.experience_id = x.id AND c.explorer_id = $%[1]d))`, viewer, grants))
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// Count implements store.NarrativeStore.Count.
func (s *PostgresNarrativeStore) Count(ctx context.Context, filter store.NarrativeFilter) (int, error) {
	where, args := narrativeWhere(filter)
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM narratives`+where, args...).Scan(&n); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to count narratives",
			slog.String("error", err.Error()))
		return 0, MapError(err, nil)
	}
	return n, nil
}

// List implements store.NarrativeStore.List.
func (s *PostgresNarrativeStore) List(
	ctx context.Context,
	filter store.NarrativeFilter,
	limit, offset int,
) ([]*domain.Narrative, error) {
	where, args := narrativeWhere(filter)
	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM narratives%s ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d`,
		narrativeColumns, where, len(args)-1, len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list narratives",
			slog.String("error", err.Error()))
		return nil, MapError(err, nil)
	}
	return s.scanAll(rows)
}

// Adjacent implements store.NarrativeStore.Adjacent.
func (s *PostgresNarrativeStore) Adjacent(
	ctx context.Context,
	n *domain.Narrative,
	publicOnly bool,
) (*uuid.UUID, *uuid.UUID, error) {
	previous, err := s.neighbour(ctx, n, publicOnly, `created_at < $2`, `DESC`)
	if err != nil {
		return nil, nil, err
	}
	next, err := s.neighbour(ctx, n, publicOnly, `created_at > $2`, `ASC`)
	if err != nil {
		return nil, nil, err
	}
	return previous, next, nil
}

func (s *PostgresNarrativeStore) neighbour(
	ctx context.Context,
	n *domain.Narrative,
	publicOnly bool,
	cond, order string,
) (*uuid.UUID, error) {
	var id uuid.UUID
	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM narratives
		WHERE experience_id = $1 AND `+cond+` AND ($3 = FALSE OR is_public)
		ORDER BY created_at `+order+`
		LIMIT 1`,
		n.ExperienceID, n.CreatedAt, publicOnly,
	).Scan(&id)
	if err != nil {
		mapped := MapError(err, store.ErrNarrativeNotFound)
		if store.IsNotFoundError(mapped) {
			return nil, nil
		}
		return nil, mapped
	}
	return &id, nil
}

// GalleryIDsByExperience implements store.NarrativeStore.GalleryIDsByExperience.
func (s *PostgresNarrativeStore) GalleryIDsByExperience(
	ctx context.Context,
	experienceID uuid.UUID,
	publicOnly bool,
) ([]uuid.UUID, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT gallery_id FROM narratives
		WHERE experience_id = $1 AND gallery_id IS NOT NULL AND ($2 = FALSE OR is_public)
		ORDER BY created_at DESC`,
		experienceID, publicOnly)
	if err != nil {
		return nil, MapError(err, nil)
	}
	defer func() { _ = rows.Close() }()

	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, MapError(err, nil)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err, nil)
	}
	return ids, nil
}

// WithTx implements store.NarrativeStore.WithTx.
func (s *PostgresNarrativeStore) WithTx(tx *sql.Tx) store.NarrativeStore {
	return &PostgresNarrativeStore{db: tx, logger: s.logger}
}
