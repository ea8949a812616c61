package errors

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPErrorAdapter_StatusCodeFor(t *testing.T) {
	adapter := NewHTTPErrorAdapter(slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error", nil, http.StatusOK},
		{"validation error", ValidationError("invalid input").Build(), http.StatusBadRequest},
		{"not found", NewError(CategoryNotFound, "no page").Build(), http.StatusNotFound},
		{"manifest error", ManifestError("bad manifest").Build(), http.StatusUnprocessableEntity},
		{"build error", BuildError("failed").Build(), http.StatusUnprocessableEntity},
		{"runtime error", NewError(CategoryRuntime, "not ready").Build(), http.StatusServiceUnavailable},
		{"internal error", InternalError("boom").Build(), http.StatusInternalServerError},
		{"unclassified error", &customError{msg: "unknown error"}, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, adapter.StatusCodeFor(tt.err))
		})
	}
}

func TestHTTPErrorAdapter_WriteErrorResponse(t *testing.T) {
	adapter := NewHTTPErrorAdapter(slog.Default())

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	adapter.WriteErrorResponse(w, r, ManifestError("duplicate slug").WithContext("slug", "intro").Build())

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var response HTTPErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "duplicate slug", response.Error)
	assert.Equal(t, "manifest", response.Category)
	assert.True(t, response.UserFixable)
	assert.Equal(t, "intro", response.Details["slug"])
}

func TestHTTPErrorAdapter_Unclassified(t *testing.T) {
	adapter := NewHTTPErrorAdapter(nil)
	resp := adapter.FormatErrorResponse(&customError{msg: "plain"})
	assert.Equal(t, HTTPErrorResponse{Error: "plain"}, resp)
	assert.Equal(t, HTTPErrorResponse{}, adapter.FormatErrorResponse(nil))
}
