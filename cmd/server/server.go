package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const (
	readHeaderTimeout = 10 * time.Second
	idleTimeout       = 2 * time.Minute
)

// startHTTPServer serves router until ctx is cancelled or the listener
// fails, then drains in-flight requests within the shutdown timeout.
func (app *application) startHTTPServer(ctx context.Context, router http.Handler) error {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", app.config.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
	}

	serverCtx, cancelServer := context.WithCancel(ctx)
	defer cancelServer()

	serveErr := make(chan error, 1)
	go func() {
		app.logger.Info("starting server", "port", app.config.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.logger.Error("server failed", "error", err)
			serveErr <- err
			cancelServer()
		}
	}()

	<-serverCtx.Done()
	app.logger.Info("shutting down server")

	timeout := time.Duration(app.config.Server.ShutdownTimeoutSeconds) * time.Second
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		app.logger.Error("server shutdown failed", "error", err)
		app.cleanup()
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	app.cleanup()

	select {
	case err := <-serveErr:
		return err
	default:
	}
	app.logger.Info("server shutdown completed")
	return nil
}
