package shared

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type titleRequest struct {
	Title string `json:"title" validate:"required,max=10"`
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	var req titleRequest
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"Camino"}`))
	require.NoError(t, DecodeJSON(r, &req))
	assert.Equal(t, "Camino", req.Title)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	assert.ErrorIs(t, DecodeJSON(r, &req), ErrEmptyBody)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":`))
	assert.Error(t, DecodeJSON(r, &req))
}

func TestValidateRequest(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateRequest(titleRequest{Title: "Camino"}))
	assert.Error(t, ValidateRequest(titleRequest{}))
	assert.Error(t, ValidateRequest(titleRequest{Title: "The Camino de Santiago"}))
}
