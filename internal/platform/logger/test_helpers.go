package logger

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// TestLogBuffer collects JSON log lines written by concurrent handlers.
type TestLogBuffer struct {
	mu   sync.Mutex
	data []byte
}

func (b *TestLogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	b.data = append(b.data, p...)
	b.mu.Unlock()
	return len(p), nil
}

func (b *TestLogBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.data)
}

// Reset discards everything logged so far.
func (b *TestLogBuffer) Reset() {
	b.mu.Lock()
	b.data = b.data[:0]
	b.mu.Unlock()
}

// GetLogEntries decodes the buffered records in the order they were logged.
func (b *TestLogBuffer) GetLogEntries() ([]map[string]any, error) {
	dec := json.NewDecoder(strings.NewReader(b.String()))
	var entries []map[string]any
	for {
		var entry map[string]any
		err := dec.Decode(&entry)
		if errors.Is(err, io.EOF) {
			return entries, nil
		}
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
}

// AssertLogContains fails t unless content appears somewhere in the log.
func AssertLogContains(t *testing.T, logBuf *TestLogBuffer, content string) {
	t.Helper()
	if logs := logBuf.String(); !strings.Contains(logs, content) {
		t.Errorf("log does not contain %q:\n%s", content, logs)
	}
}

// GetTestLogger returns a debug-level logger with the production redacting
// handler, so tests see exactly what would reach the log pipeline.
func GetTestLogger(t *testing.T) (*slog.Logger, *TestLogBuffer) {
	t.Helper()
	buf := &TestLogBuffer{}
	h := slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(NewRedactingHandler(h)), buf
}
