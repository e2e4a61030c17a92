// Package logger provides structured logging for the application.
//
// It builds JSON log/slog loggers whose attributes pass through the redact
// package, and carries request-scoped loggers through context.Context.
package logger
