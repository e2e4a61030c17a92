package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/acressity/acressity-api/internal/config"
)

// ParseLevel maps a configured level name to a slog level (case-insensitive).
// Unknown names report ok=false and fall back to info.
func ParseLevel(name string) (level slog.Level, ok bool) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// Setup initializes the application's structured JSON logger on stdout and
// installs it as the slog default.
func Setup(cfg config.ServerConfig) (*slog.Logger, error) {
	return SetupWithWriter(cfg, os.Stdout)
}

// SetupWithWriter is Setup with an explicit destination.
func SetupWithWriter(cfg config.ServerConfig, w io.Writer) (*slog.Logger, error) {
	level, ok := ParseLevel(cfg.LogLevel)

	handler := NewRedactingHandler(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	l := slog.New(handler)

	if !ok {
		l.Warn("invalid log level configured, using default level",
			"configured_level", cfg.LogLevel,
			"default_level", "info")
	}

	slog.SetDefault(l)
	return l, nil
}
