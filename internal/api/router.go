package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/iconidentify/vgrabba/internal/api/handler"
	mw "github.com/iconidentify/vgrabba/internal/api/middleware"
)

// NewRouter creates the HTTP router with all routes configured.
func NewRouter(
	mediaHandler *handler.MediaHandler,
	thumbnailHandler *handler.ThumbnailHandler,
	healthHandler *handler.HealthHandler,
	requestTimeout time.Duration,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CleanPath) // Normalize paths (e.g., //info -> /info)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.Logger)
	r.Use(mw.Recovery)
	if requestTimeout > 0 {
		r.Use(middleware.Timeout(requestTimeout))
	}
	r.Use(mw.CORS)

	r.Get("/health", healthHandler.Live)
	r.Get("/ready", healthHandler.Ready)

	media := func(r chi.Router) {
		r.Get("/info", mediaHandler.Info)
		r.Get("/download", mediaHandler.Download)
		r.Get("/downloadThumbnail", thumbnailHandler.Thumbnail)
	}
	media(r)
	r.Route("/api", func(r chi.Router) {
		media(r)
		r.Get("/v1/stats", healthHandler.Stats)
	})

	return r
}
