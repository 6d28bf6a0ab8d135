package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fourier-ai/lmdrag/internal/api/handlers"
)

func newTestRouter() http.Handler {
	return NewRouter(RouterConfig{
		DocumentHandler: handlers.NewDocumentHandler(nil, nil),
		QueryHandler:    handlers.NewQueryHandler(nil, nil, nil),
	})
}

func TestRouter_Health(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Data["status"])
}

func TestRouter_RequestID(t *testing.T) {
	router := newTestRouter()

	t.Run("generates an id when none is sent", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/health", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	})

	t.Run("echoes a caller-supplied id", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/health", nil)
		req.Header.Set("X-Request-ID", "req-123")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))
	})
}

func TestRouter_UnknownRoute(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest("GET", "/nope", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
