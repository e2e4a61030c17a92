package logger

import (
	"context"
	"log/slog"

	"github.com/acressity/acressity-api/internal/redact"
)

// RedactingHandler wraps a slog.Handler and scrubs credentials, hashes and
// tokens from string and error attributes before they are written.
type RedactingHandler struct {
	handler slog.Handler
}

// NewRedactingHandler wraps h.
func NewRedactingHandler(h slog.Handler) *RedactingHandler {
	return &RedactingHandler{handler: h}
}

// Enabled implements slog.Handler.
func (h *RedactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// WithAttrs implements slog.Handler.
func (h *RedactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	scrubbed := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		scrubbed[i] = redactAttr(a)
	}
	return &RedactingHandler{handler: h.handler.WithAttrs(scrubbed)}
}

// WithGroup implements slog.Handler.
func (h *RedactingHandler) WithGroup(name string) slog.Handler {
	return &RedactingHandler{handler: h.handler.WithGroup(name)}
}

// Handle implements slog.Handler.
func (h *RedactingHandler) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(redactAttr(a))
		return true
	})
	return h.handler.Handle(ctx, out)
}

func redactAttr(a slog.Attr) slog.Attr {
	v := a.Value.Resolve()
	switch v.Kind() {
	case slog.KindString:
		return slog.String(a.Key, redact.String(v.String()))
	case slog.KindGroup:
		group := v.Group()
		scrubbed := make([]any, len(group))
		for i, ga := range group {
			scrubbed[i] = redactAttr(ga)
		}
		return slog.Group(a.Key, scrubbed...)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return slog.String(a.Key, redact.Error(err))
		}
	}
	return a
}
