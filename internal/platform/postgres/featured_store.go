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

// PostgresFeaturedStore implements store.FeaturedStore.
type PostgresFeaturedStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresFeaturedStore creates a featured experience store on db.
func NewPostgresFeaturedStore(db store.DBTX, logger *slog.Logger) *PostgresFeaturedStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresFeaturedStore{
		db:     db,
		logger: logger.With(slog.String("component", "featured_store")),
	}
}

var _ store.FeaturedStore = (*PostgresFeaturedStore)(nil)

// Create implements store.FeaturedStore.Create.
func (s *PostgresFeaturedStore) Create(ctx context.Context, f *domain.FeaturedExperience) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO featured_experiences (id, explorer_id, experience_id, featured_at)
		VALUES ($1, $2, $3, $4)`,
		f.ID, f.ExplorerID, f.ExperienceID, f.FeaturedAt)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to feature experience",
			slog.String("experience_id", f.ExperienceID.String()), slog.String("error", err.Error()))
		return MapError(err, nil)
	}
	return nil
}

// Latest implements store.FeaturedStore.Latest.
func (s *PostgresFeaturedStore) Latest(ctx context.Context, explorerID uuid.UUID) (*domain.FeaturedExperience, error) {
	var f domain.FeaturedExperience
	err := s.db.QueryRowContext(ctx, `
		SELECT id, explorer_id, experience_id, featured_at
		FROM featured_experiences
		WHERE explorer_id = $1
		ORDER BY featured_at DESC
		LIMIT 1`, explorerID,
	).Scan(&f.ID, &f.ExplorerID, &f.ExperienceID, &f.FeaturedAt)
	if err != nil {
		return nil, MapError(err, store.ErrFeaturedNotFound)
	}
	return &f, nil
}

// WithTx implements store.FeaturedStore.WithTx.
func (s *PostgresFeaturedStore) WithTx(tx *sql.Tx) store.FeaturedStore {
	return &PostgresFeaturedStore{db: tx, logger: s.logger}
}
