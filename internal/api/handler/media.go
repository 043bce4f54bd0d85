package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/iconidentify/vgrabba/internal/domain"
)

// MediaService resolves metadata and downloads formats.
type MediaService interface {
	Resolve(ctx context.Context, url string) (*domain.VideoInfo, error)
	Download(ctx context.Context, url, formatID string) (*domain.Artifact, error)
}

// MediaHandler handles the info and download endpoints.
type MediaHandler struct {
	mediaSvc MediaService
	logger   *slog.Logger
}

// NewMediaHandler creates a new media handler.
func NewMediaHandler(mediaSvc MediaService, logger *slog.Logger) *MediaHandler {
	return &MediaHandler{
		mediaSvc: mediaSvc,
		logger:   logger,
	}
}

// Info handles GET /info?url=
func (h *MediaHandler) Info(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")

	info, err := h.mediaSvc.Resolve(r.Context(), url)
	if err != nil {
		status := statusFor(err)
		msg := errorMessage(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("info failed", "url", url, "error", err)
			msg = "error fetching video info: " + msg
		}
		writeError(w, status, msg)
		return
	}

	writeJSON(w, http.StatusOK, info)
}

// Download handles GET /download?url=&formatId=
func (h *MediaHandler) Download(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	url := q.Get("url")
	formatID := q.Get("formatId")

	artifact, err := h.mediaSvc.Download(r.Context(), url, formatID)
	if err != nil {
		status := statusFor(err)
		msg := errorMessage(err)
		switch {
		case errors.Is(err, domain.ErrStorageInconsistency):
			h.logger.Error("download output missing", "url", url, "format_id", formatID, "error", err)
			msg = domain.ErrStorageInconsistency.Error()
		case status == http.StatusInternalServerError:
			h.logger.Error("download failed", "url", url, "format_id", formatID, "error", err)
			msg = "error during download: " + msg
		}
		writeError(w, status, msg)
		return
	}

	writeArtifact(w, artifact)
}
