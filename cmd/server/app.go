package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/acressity/acressity-api/internal/api"
	"github.com/acressity/acressity-api/internal/config"
	"github.com/acressity/acressity-api/internal/platform/postgres"
	"github.com/acressity/acressity-api/internal/service"
	"github.com/acressity/acressity-api/internal/service/auth"
)

// application holds the shared dependencies and closes them on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	jwtService  auth.JWTService
	explorers   service.ExplorerService
	experiences service.ExperienceService
	narratives  service.NarrativeService
	galleries   service.GalleryService
}

// newApplication wires the postgres stores into the services. db must
// already be open.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes,
		"grant_lifetime_minutes", cfg.Auth.GrantLifetimeMinutes)

	credentials := auth.NewBcryptCredentials(cfg.Auth.BCryptCost)

	stores := service.Stores{
		Explorers:   postgres.NewPostgresExplorerStore(db, logger),
		Experiences: postgres.NewPostgresExperienceStore(db, logger),
		Narratives:  postgres.NewPostgresNarrativeStore(db, logger),
		Galleries:   postgres.NewPostgresGalleryStore(db, logger),
		Featured:    postgres.NewPostgresFeaturedStore(db, logger),
	}

	app.explorers, err = service.NewExplorerService(
		stores.Explorers, credentials, db, cfg.Auth.MinPasswordLength, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create explorer service: %w", err)
	}

	app.experiences, err = service.NewExperienceService(
		stores, credentials, app.jwtService, db, cfg.Auth.MinPasswordLength, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create experience service: %w", err)
	}

	app.narratives, err = service.NewNarrativeService(stores, db, cfg.Listing.PageSize, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create narrative service: %w", err)
	}

	app.galleries, err = service.NewGalleryService(stores, db, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create gallery service: %w", err)
	}

	logger.Info("application initialized successfully")
	return app, nil
}

// router builds the HTTP handler for the application's services.
func (app *application) router() http.Handler {
	return api.NewRouter(api.RouterDeps{
		Explorers:      app.explorers,
		Experiences:    app.experiences,
		Narratives:     app.narratives,
		Galleries:      app.galleries,
		JWTService:     app.jwtService,
		Logger:         app.logger,
		AllowedOrigins: app.config.Server.AllowedOrigins,
	})
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.router()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}
}
