package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/iconidentify/vgrabba/internal/domain"
)

// ThumbnailService fetches thumbnail images.
type ThumbnailService interface {
	Fetch(ctx context.Context, url, title string) (*domain.Artifact, error)
}

// ThumbnailHandler proxies thumbnails as downloads.
type ThumbnailHandler struct {
	thumbSvc ThumbnailService
	logger   *slog.Logger
}

// NewThumbnailHandler creates a new thumbnail handler.
func NewThumbnailHandler(thumbSvc ThumbnailService, logger *slog.Logger) *ThumbnailHandler {
	return &ThumbnailHandler{
		thumbSvc: thumbSvc,
		logger:   logger,
	}
}

// Thumbnail handles GET /downloadThumbnail?url=&title=
func (h *ThumbnailHandler) Thumbnail(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	url := q.Get("url")

	artifact, err := h.thumbSvc.Fetch(r.Context(), url, q.Get("title"))
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("thumbnail failed", "url", url, "error", err)
		}
		writeError(w, status, errorMessage(err))
		return
	}

	writeArtifact(w, artifact)
}
