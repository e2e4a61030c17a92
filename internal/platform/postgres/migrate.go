package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"
)

// MigrationTableName is the goose version table.
const MigrationTableName = "schema_migrations"

//go:embed migrations/*.sql
var migrationFS embed.FS

// slogGooseLogger forwards goose output to slog.
type slogGooseLogger struct {
	log *slog.Logger
}

func (l *slogGooseLogger) Printf(format string, v ...any) {
	l.log.Info(fmt.Sprintf(format, v...))
}

func (l *slogGooseLogger) Fatalf(format string, v ...any) {
	l.log.Error(fmt.Sprintf(format, v...))
}

func configureGoose(log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}
	goose.SetLogger(&slogGooseLogger{log: log.With(slog.String("component", "migrations"))})
	goose.SetBaseFS(migrationFS)
	goose.SetTableName(MigrationTableName)
	return goose.SetDialect("postgres")
}

// Migrate applies all pending embedded migrations.
func Migrate(ctx context.Context, db *sql.DB, log *slog.Logger) error {
	if err := configureGoose(log); err != nil {
		return fmt.Errorf("failed to configure migrations: %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// MigrationVersion reports the current schema version.
func MigrationVersion(ctx context.Context, db *sql.DB, log *slog.Logger) (int64, error) {
	if err := configureGoose(log); err != nil {
		return 0, fmt.Errorf("failed to configure migrations: %w", err)
	}
	v, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return v, nil
}

// Rollback reverts the most recent migration.
func Rollback(ctx context.Context, db *sql.DB, log *slog.Logger) error {
	if err := configureGoose(log); err != nil {
		return fmt.Errorf("failed to configure migrations: %w", err)
	}
	if err := goose.DownContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("failed to roll back migration: %w", err)
	}
	return nil
}
