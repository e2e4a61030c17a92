// Package main runs the Acressity API server. With -migrate it applies or
// rolls back the database schema instead of serving.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/acressity/acressity-api/internal/config"
	"github.com/acressity/acressity-api/internal/platform/logger"
)

func main() {
	migrateCmd := flag.String("migrate", "", "run a migration command instead of serving: up, down or status")
	skipMigrations := flag.Bool("skip-migrations", false, "do not apply pending migrations on startup")
	flag.Parse()

	if err := run(*migrateCmd, *skipMigrations); err != nil {
		log.Fatalf("acressity-api: %v", err)
	}
}

func run(migrateCmd string, skipMigrations bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	appLogger.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"page_size", cfg.Listing.PageSize)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := setupAppDatabase(ctx, cfg, appLogger)
	if err != nil {
		return err
	}

	if migrateCmd != "" {
		defer closeDB(db, appLogger)
		return handleMigrations(ctx, db, migrateCmd, appLogger)
	}

	if !skipMigrations {
		if err := handleMigrations(ctx, db, "up", appLogger); err != nil {
			closeDB(db, appLogger)
			return err
		}
	}

	app, err := newApplication(cfg, appLogger, db)
	if err != nil {
		closeDB(db, appLogger)
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return app.Run(ctx)
}

func closeDB(db interface{ Close() error }, log *slog.Logger) {
	if err := db.Close(); err != nil {
		log.Error("error closing database connection", "error", err)
	}
}
