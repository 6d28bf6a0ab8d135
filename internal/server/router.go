package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fourier-ai/lmdrag/internal/api"
	"github.com/fourier-ai/lmdrag/internal/api/handlers"
	"github.com/fourier-ai/lmdrag/internal/api/middleware"
)

type RouterConfig struct {
	DocumentHandler *handlers.DocumentHandler
	QueryHandler    *handlers.QueryHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Uploads carry whole PDFs, so the body cap is generous.
	const maxBodyBytes int64 = 25 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/documents", func(r chi.Router) {
		r.Post("/", cfg.DocumentHandler.Ingest)
		r.Get("/", cfg.DocumentHandler.List)
		r.Get("/{hash}", cfg.DocumentHandler.Get)
		r.Get("/{hash}/download", cfg.DocumentHandler.Download)
	})

	r.Post("/query", cfg.QueryHandler.Query)
	r.Get("/history", cfg.QueryHandler.History)
	r.Post("/feedback", cfg.QueryHandler.Feedback)

	return r
}
