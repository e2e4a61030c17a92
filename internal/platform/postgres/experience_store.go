package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"

	"github.com/acressity/acressity-api/internal/domain"
	"github.com/acressity/acressity-api/internal/platform/logger"
	"github.com/acressity/acressity-api/internal/store"
	"github.com/google/uuid"
)

// PostgresExperienceStore implements store.ExperienceStore.
type PostgresExperienceStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresExperienceStore creates an experience store on db.
func NewPostgresExperienceStore(db store.DBTX, logger *slog.Logger) *PostgresExperienceStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresExperienceStore{
		db:     db,
		logger: logger.With(slog.String("component", "experience_store")),
	}
}

var _ store.ExperienceStore = (*PostgresExperienceStore)(nil)

// comrades are aggregated in join order so the author, added first, leads.
const experienceSelect = `
	SELECT e.id, e.author_id, e.title, e.brief, e.status, e.is_public, e.password,
		e.search_term, e.gallery_id, e.created_at, e.updated_at,
		COALESCE((
			SELECT string_agg(c.explorer_id::text, ',' ORDER BY c.joined_at, c.explorer_id)
			FROM experience_comrades c WHERE c.experience_id = e.id
		), '')
	FROM experiences e`

func scanExperience(row interface{ Scan(...any) error }) (*domain.Experience, error) {
	var (
		e          domain.Experience
		searchTerm sql.NullString
		galleryID  uuid.NullUUID
		comrades   string
	)
	err := row.Scan(&e.ID, &e.AuthorID, &e.Title, &e.Brief, &e.Status, &e.IsPublic, &e.Password,
		&searchTerm, &galleryID, &e.CreatedAt, &e.UpdatedAt, &comrades)
	if err != nil {
		return nil, err
	}
	if searchTerm.Valid {
		term := searchTerm.String
		e.SearchTerm = &term
	}
	if galleryID.Valid {
		id := galleryID.UUID
		e.GalleryID = &id
	}
	e.ComradeIDs, err = parseIDs(comrades)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func parseIDs(joined string) ([]uuid.UUID, error) {
	if joined == "" {
		return []uuid.UUID{}, nil
	}
	parts := strings.Split(joined, ",")
	ids := make([]uuid.UUID, 0, len(parts))
	for _, p := range parts {
		id, err := uuid.Parse(p)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

// checkSearchTerm rejects a search term that equals an explorer's trailname.
func (s *PostgresExperienceStore) checkSearchTerm(ctx context.Context, term *string) error {
	if term == nil {
		return nil
	}
	var taken bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM explorers WHERE trailname = $1)`, *term).Scan(&taken)
	if err != nil {
		return MapError(err, nil)
	}
	if taken {
		return store.ErrSearchTermExists
	}
	return nil
}

// Create implements store.ExperienceStore.Create.
func (s *PostgresExperienceStore) Create(ctx context.Context, e *domain.Experience) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := e.Validate(); err != nil {
		log.Warn("experience validation failed during create", slog.String("error", err.Error()))
		return err
	}
	if err := s.checkSearchTerm(ctx, e.SearchTerm); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO experiences (id, author_id, title, brief, status, is_public, password,
			search_term, gallery_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		e.ID, e.AuthorID, e.Title, e.Brief, e.Status, e.IsPublic, e.Password,
		nullString(e.SearchTerm), nullUUID(e.GalleryID), e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create experience",
			slog.String("experience_id", e.ID.String()), slog.String("error", err.Error()))
		return MapError(err, nil)
	}

	for _, comradeID := range e.ComradeIDs {
		if err := s.AddComrade(ctx, e.ID, comradeID); err != nil {
			return err
		}
	}

	log.Info("experience created",
		slog.String("experience_id", e.ID.String()),
		slog.String("author_id", e.AuthorID.String()))
	return nil
}

func (s *PostgresExperienceStore) get(ctx context.Context, where string, arg any) (*domain.Experience, error) {
	e, err := scanExperience(s.db.QueryRowContext(ctx, experienceSelect+` WHERE `+where, arg))
	if err != nil {
		mapped := MapError(err, store.ErrExperienceNotFound)
		if !store.IsNotFoundError(mapped) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to get experience",
				slog.String("error", err.Error()))
		}
		return nil, mapped
	}
	return e, nil
}

// GetByID implements store.ExperienceStore.GetByID.
func (s *PostgresExperienceStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Experience, error) {
	return s.get(ctx, `e.id = $1`, id)
}

// GetForUpdate implements store.ExperienceStore.GetForUpdate.
func (s *PostgresExperienceStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Experience, error) {
	var locked uuid.UUID
	err := s.db.QueryRowContext(ctx, `SELECT id FROM experiences WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
	if err != nil {
		return nil, MapError(err, store.ErrExperienceNotFound)
	}
	return s.GetByID(ctx, id)
}

// GetBySearchTerm implements store.ExperienceStore.GetBySearchTerm.
func (s *PostgresExperienceStore) GetBySearchTerm(ctx context.Context, term string) (*domain.Experience, error) {
	return s.get(ctx, `e.search_term = $1`, term)
}

// Update implements store.ExperienceStore.Update.
func (s *PostgresExperienceStore) Update(ctx context.Context, e *domain.Experience) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := e.Validate(); err != nil {
		return err
	}
	if err := s.checkSearchTerm(ctx, e.SearchTerm); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE experiences
		SET title = $1, brief = $2, status = $3, is_public = $4, password = $5,
			search_term = $6, updated_at = $7
		WHERE id = $8`,
		e.Title, e.Brief, e.Status, e.IsPublic, e.Password,
		nullString(e.SearchTerm), e.UpdatedAt, e.ID,
	)
	if err != nil {
		log.Error("failed to update experience",
			slog.String("experience_id", e.ID.String()), slog.String("error", err.Error()))
		return MapError(err, nil)
	}
	if err := CheckRowsAffected(result, store.ErrExperienceNotFound); err != nil {
		return err
	}
	log.Debug("experience updated", slog.String("experience_id", e.ID.String()))
	return nil
}

// AttachGallery implements store.ExperienceStore.AttachGallery.
func (s *PostgresExperienceStore) AttachGallery(ctx context.Context, id, galleryID uuid.UUID) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE experiences SET gallery_id = $1 WHERE id = $2`, galleryID, id)
	if err != nil {
		return MapError(err, nil)
	}
	return CheckRowsAffected(result, store.ErrExperienceNotFound)
}

// Delete implements store.ExperienceStore.Delete.
func (s *PostgresExperienceStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM experiences WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete experience",
			slog.String("experience_id", id.String()), slog.String("error", err.Error()))
		return MapError(err, nil)
	}
	if err := CheckRowsAffected(result, store.ErrExperienceNotFound); err != nil {
		return err
	}
	log.Info("experience deleted", slog.String("experience_id", id.String()))
	return nil
}

// AddComrade implements store.ExperienceStore.AddComrade.
func (s *PostgresExperienceStore) AddComrade(ctx context.Context, experienceID, explorerID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO experience_comrades (experience_id, explorer_id) VALUES ($1, $2)`,
		experienceID, explorerID)
	if err != nil {
		return MapError(err, nil)
	}
	return nil
}

// RemoveComrade implements store.ExperienceStore.RemoveComrade.
func (s *PostgresExperienceStore) RemoveComrade(ctx context.Context, experienceID, explorerID uuid.UUID) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM experience_comrades WHERE experience_id = $1 AND explorer_id = $2`,
		experienceID, explorerID)
	if err != nil {
		return MapError(err, nil)
	}
	return CheckRowsAffected(result, store.ErrComradeNotFound)
}

// ListByExplorer implements store.ExperienceStore.ListByExplorer.
func (s *PostgresExperienceStore) ListByExplorer(
	ctx context.Context,
	explorerID uuid.UUID,
	publicOnly bool,
) ([]*domain.Experience, error) {
	rows, err := s.db.QueryContext(ctx, experienceSelect+`
		WHERE (e.author_id = $1 OR EXISTS (
			SELECT 1 FROM experience_comrades c
			WHERE c.experience_id = e.id AND c.explorer_id = $1))
		AND ($2 = FALSE OR e.is_public)
		ORDER BY e.created_at DESC`,
		explorerID, publicOnly)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list experiences",
			slog.String("explorer_id", explorerID.String()), slog.String("error", err.Error()))
		return nil, MapError(err, nil)
	}
	defer func() { _ = rows.Close() }()

	out := []*domain.Experience{}
	for rows.Next() {
		e, err := scanExperience(rows)
		if err != nil {
			return nil, MapError(err, nil)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err, nil)
	}
	return out, nil
}

// WithTx implements store.ExperienceStore.WithTx.
func (s *PostgresExperienceStore) WithTx(tx *sql.Tx) store.ExperienceStore {
	return &PostgresExperienceStore{db: tx, logger: s.logger}
}
