package shared

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/acressity/acressity-api/internal/domain"
)

// ContextKey is the type of request context keys set by this package.
type ContextKey string

const (
	// ViewerContextKey holds the domain.Viewer resolved by the auth middleware.
	ViewerContextKey ContextKey = "viewer"

	// TraceIDKey is the key for the trace ID in the request context
	TraceIDKey ContextKey = "traceID"

	// TraceIDLength is the number of bytes used to generate the trace ID
	TraceIDLength = 16 // 32 hex characters
)

// WithViewer stores the viewer in ctx.
func WithViewer(ctx context.Context, v domain.Viewer) context.Context {
	return context.WithValue(ctx, ViewerContextKey, v)
}

// ViewerFromContext returns the viewer stored in ctx, or an anonymous viewer.
func ViewerFromContext(ctx context.Context) domain.Viewer {
	v, ok := ctx.Value(ViewerContextKey).(domain.Viewer)
	if !ok {
		return domain.Anonymous()
	}
	return v
}

// SetTraceID adds a new trace ID to the context.
func SetTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDKey, generateTraceID())
}

// GetTraceID retrieves the trace ID from the context.
// If no trace ID exists, it returns an empty string.
func GetTraceID(ctx context.Context) string {
	traceID, _ := ctx.Value(TraceIDKey).(string)
	return traceID
}

// generateTraceID returns 32 random hex characters, falling back to a
// clock-derived value if crypto/rand fails.
func generateTraceID() string {
	b := make([]byte, TraceIDLength)
	if n, err := rand.Read(b); err != nil || n != TraceIDLength {
		slog.Error("failed to generate secure random trace ID",
			"error", err,
			"bytes_read", n,
			"fallback", "time-based generation")
		now := time.Now()
		binary.BigEndian.PutUint64(b[:8], uint64(now.UnixNano()))
		binary.BigEndian.PutUint64(b[8:], uint64(now.Unix())^uint64(now.Nanosecond()))
	}
	return hex.EncodeToString(b)
}
