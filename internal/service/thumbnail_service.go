package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/iconidentify/vgrabba/internal/domain"
	"github.com/iconidentify/vgrabba/internal/downloader"
)

var errMissingThumbnailURL = errors.New("thumbnail URL is required")

// ThumbnailService proxies thumbnail images as attachments.
type ThumbnailService struct {
	fetcher downloader.Fetcher
	filter  *domain.HostFilter
	logger  *slog.Logger
}

// NewThumbnailService creates a new thumbnail service. Only hosts accepted
// by filter are fetched.
func NewThumbnailService(fetcher downloader.Fetcher, filter *domain.HostFilter, logger *slog.Logger) *ThumbnailService {
	return &ThumbnailService{
		fetcher: fetcher,
		filter:  filter,
		logger:  logger,
	}
}

// Fetch downloads the image at rawURL and names it after title.
func (s *ThumbnailService) Fetch(ctx context.Context, rawURL, title string) (*domain.Artifact, error) {
	const op = "thumbnail"

	if rawURL == "" {
		return nil, domain.NewMediaError("", op, domain.WithKind(domain.ErrInvalidRequest, errMissingThumbnailURL))
	}
	if _, err := s.filter.Check(rawURL); err != nil {
		return nil, domain.NewMediaError(rawURL, op, domain.WithKind(domain.ErrInvalidRequest, err))
	}

	resp, err := s.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, domain.NewMediaError(rawURL, op, domain.WithKind(domain.ErrExtractionFailure,
			fmt.Errorf("failed to fetch thumbnail: %w", err)))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NewMediaError(rawURL, op, domain.WithKind(domain.ErrExtractionFailure,
			fmt.Errorf("failed to read thumbnail: %w", err)))
	}

	contentType := resp.ContentType
	if contentType == "" {
		contentType = "image/jpeg"
	}

	s.logger.Debug("fetched thumbnail", "url", rawURL, "content_type", contentType, "size_bytes", len(data))

	return &domain.Artifact{
		Filename:    domain.ThumbnailFilename(title, contentType),
		ContentType: contentType,
		Data:        data,
	}, nil
}
