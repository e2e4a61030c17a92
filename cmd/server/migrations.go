package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/acressity/acressity-api/internal/platform/postgres"
)

// handleMigrations runs a single migration command against db.
func handleMigrations(ctx context.Context, db *sql.DB, cmd string, logger *slog.Logger) error {
	switch cmd {
	case "up":
		logger.Info("applying migrations")
		if err := postgres.Migrate(ctx, db, logger); err != nil {
			return err
		}
	case "down":
		logger.Info("rolling back latest migration")
		if err := postgres.Rollback(ctx, db, logger); err != nil {
			return err
		}
	case "status":
	default:
		return fmt.Errorf("unknown migration command %q", cmd)
	}

	version, err := postgres.MigrationVersion(ctx, db, logger)
	if err != nil {
		return err
	}
	logger.Info("schema version", "version", version)
	return nil
}
