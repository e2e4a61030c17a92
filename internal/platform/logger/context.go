package logger

import (
	"context"
	"log/slog"
)

type contextKey string

const (
	loggerKey    contextKey = "logger"
	requestIDKey contextKey = "request_id"
)

// WithLogger stores l in ctx.
func WithLogger(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext returns the logger stored in ctx, or slog.Default.
func FromContext(ctx context.Context) *slog.Logger {
	return FromContextOrDefault(ctx, slog.Default())
}

// FromContextOrDefault returns the logger stored in ctx, or fallback.
// The request ID, when present, is attached to the returned logger.
func FromContextOrDefault(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if fallback == nil {
		fallback = slog.Default()
	}
	if ctx == nil {
		return fallback
	}
	l, ok := ctx.Value(loggerKey).(*slog.Logger)
	if !ok || l == nil {
		l = fallback
		if id := RequestIDFromContext(ctx); id != "" {
			l = l.With(slog.String("request_id", id))
		}
	}
	return l
}

// WithRequestID stores a request correlation ID in ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the request ID stored in ctx, if any.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
