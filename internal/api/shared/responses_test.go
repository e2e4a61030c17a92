package shared

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/acressity/acressity-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWithJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		status       int
		data         interface{}
		expectedBody string
	}{
		{"object", http.StatusOK, map[string]interface{}{"title": "Camino"}, `{"title":"Camino"}`},
		{"empty object", http.StatusOK, map[string]interface{}{}, `{}`},
		{"nil writes status only", http.StatusNoContent, nil, ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := httptest.NewRecorder()
			RespondWithJSON(w, httptest.NewRequest(http.MethodGet, "/", nil), tt.status, tt.data)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.Equal(t, tt.expectedBody, strings.TrimSpace(w.Body.String()))
		})
	}
}

func TestRespondWithErrorAndLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		status    int
		opts      []ResponseOption
		wantLevel string
	}{
		{"server error", http.StatusInternalServerError, nil, "ERROR"},
		{"client error", http.StatusNotFound, nil, "DEBUG"},
		{"elevated client error", http.StatusForbidden, []ResponseOption{WithElevatedLogLevel()}, "WARN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			log, buf := logger.GetTestLogger(t)
			r := httptest.NewRequest(http.MethodGet, "/api/experiences", nil)
			ctx := logger.WithLogger(SetTraceID(r.Context()), log)
			r = r.WithContext(ctx)
			w := httptest.NewRecorder()

			err := errors.New("password=hunter22 rejected")
			RespondWithErrorAndLog(w, r, tt.status, "Something went wrong", err, tt.opts...)

			assert.Equal(t, tt.status, w.Code)
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "Something went wrong", resp.Error)
			assert.Equal(t, GetTraceID(ctx), resp.TraceID)

			entries, lerr := buf.GetLogEntries()
			require.NoError(t, lerr)
			require.Len(t, entries, 1)
			assert.Equal(t, tt.wantLevel, entries[0]["level"])
			assert.NotContains(t, buf.String(), "hunter22")
		})
	}
}

func TestWithField(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	RespondWithErrorAndLog(w, httptest.NewRequest(http.MethodPost, "/", nil),
		http.StatusBadRequest, "Make it longer", nil, WithField("title"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "title", resp.Field)
}
