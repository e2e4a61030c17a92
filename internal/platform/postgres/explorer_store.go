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

// PostgresExplorerStore implements store.ExplorerStore.
type PostgresExplorerStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresExplorerStore creates an explorer store on db, which may be a
// *sql.DB or a *sql.Tx. A nil logger falls back to slog.Default.
func NewPostgresExplorerStore(db store.DBTX, logger *slog.Logger) *PostgresExplorerStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresExplorerStore{
		db:     db,
		logger: logger.With(slog.String("component", "explorer_store")),
	}
}

var _ store.ExplorerStore = (*PostgresExplorerStore)(nil)

const explorerColumns = `id, email, trailname, first_name, last_name, hashed_password, created_at, updated_at`

// Create implements store.ExplorerStore.Create.
func (s *PostgresExplorerStore) Create(ctx context.Context, e *domain.Explorer) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := e.Validate(); err != nil {
		log.Warn("explorer validation failed during create", slog.String("error", err.Error()))
		return err
	}

	var taken bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM experiences WHERE search_term = $1)`,
		e.Trailname,
	).Scan(&taken)
	if err != nil {
		log.Error("failed to check trailname against search terms", slog.String("error", err.Error()))
		return MapError(err, nil)
	}
	if taken {
		return store.ErrTrailnameExists
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO explorers (`+explorerColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.ID, strings.ToLower(e.Email), e.Trailname, e.FirstName, e.LastName,
		e.HashedPassword, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		mapped := MapError(err, nil)
		if store.IsDuplicateError(mapped) {
			log.Debug("explorer already exists", slog.String("error", err.Error()))
		} else {
			log.Error("failed to create explorer", slog.String("error", err.Error()))
		}
		return mapped
	}

	log.Info("explorer created", slog.String("explorer_id", e.ID.String()))
	return nil
}

func scanExplorer(row interface{ Scan(...any) error }) (*domain.Explorer, error) {
	var e domain.Explorer
	err := row.Scan(&e.ID, &e.Email, &e.Trailname, &e.FirstName, &e.LastName,
		&e.HashedPassword, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// GetByID implements store.ExplorerStore.GetByID.
func (s *PostgresExplorerStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Explorer, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+explorerColumns+` FROM explorers WHERE id = $1`, id)
	e, err := scanExplorer(row)
	if err != nil {
		return nil, s.lookupError(ctx, err, slog.String("explorer_id", id.String()))
	}
	return e, nil
}

// GetByEmail implements store.ExplorerStore.GetByEmail.
func (s *PostgresExplorerStore) GetByEmail(ctx context.Context, email string) (*domain.Explorer, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+explorerColumns+` FROM explorers WHERE LOWER(email) = LOWER($1)`,
		strings.TrimSpace(email))
	e, err := scanExplorer(row)
	if err != nil {
		return nil, s.lookupError(ctx, err)
	}
	return e, nil
}

func (s *PostgresExplorerStore) lookupError(ctx context.Context, err error, attrs ...any) error {
	mapped := MapError(err, store.ErrExplorerNotFound)
	if !store.IsNotFoundError(mapped) {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get explorer",
			append(attrs, slog.String("error", err.Error()))...)
	}
	return mapped
}

// UpdatePassword implements store.ExplorerStore.UpdatePassword.
func (s *PostgresExplorerStore) UpdatePassword(ctx context.Context, id uuid.UUID, hashedPassword string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`UPDATE explorers SET hashed_password = $1, updated_at = NOW() WHERE id = $2`,
		hashedPassword, id)
	if err != nil {
		log.Error("failed to update explorer password",
			slog.String("explorer_id", id.String()), slog.String("error", err.Error()))
		return MapError(err, nil)
	}
	if err := CheckRowsAffected(result, store.ErrExplorerNotFound); err != nil {
		return err
	}
	log.Info("explorer password updated", slog.String("explorer_id", id.String()))
	return nil
}

// ListByIDs implements store.ExplorerStore.ListByIDs.
func (s *PostgresExplorerStore) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Explorer, error) {
	if len(ids) == 0 {
		return []*domain.Explorer{}, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+explorerColumns+` FROM explorers WHERE id = `+anyIDs+` ORDER BY trailname`,
		joinIDs(ids))
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list explorers",
			slog.String("error", err.Error()))
		return nil, MapError(err, nil)
	}
	defer func() { _ = rows.Close() }()

	out := make([]*domain.Explorer, 0, len(ids))
	for rows.Next() {
		e, err := scanExplorer(rows)
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

// WithTx implements store.ExplorerStore.WithTx.
func (s *PostgresExplorerStore) WithTx(tx *sql.Tx) store.ExplorerStore {
	return &PostgresExplorerStore{db: tx, logger: s.logger}
}
