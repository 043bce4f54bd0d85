package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/iconidentify/vgrabba/internal/domain"
)

// testLogger returns a silent logger for tests.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockMediaService is a test implementation of MediaService.
type mockMediaService struct {
	info         *domain.VideoInfo
	artifact     *domain.Artifact
	err          error
	lastURL      string
	lastFormat   string
	resolveHits  int
	downloadHits int
}

func (m *mockMediaService) Resolve(ctx context.Context, url string) (*domain.VideoInfo, error) {
	m.resolveHits++
	m.lastURL = url
	if m.err != nil {
		return nil, m.err
	}
	return m.info, nil
}

func (m *mockMediaService) Download(ctx context.Context, url, formatID string) (*domain.Artifact, error) {
	m.downloadHits++
	m.lastURL = url
	m.lastFormat = formatID
	if m.err != nil {
		return nil, m.err
	}
	return m.artifact, nil
}

// mockThumbnailService is a test implementation of ThumbnailService.
type mockThumbnailService struct {
	artifact  *domain.Artifact
	err       error
	lastTitle string
}

func (m *mockThumbnailService) Fetch(ctx context.Context, url, title string) (*domain.Artifact, error) {
	m.lastTitle = title
	if m.err != nil {
		return nil, m.err
	}
	return m.artifact, nil
}

// mockProbe is a test implementation of ExtractorProbe.
type mockProbe struct {
	err error
}

func (m *mockProbe) Available() error {
	return m.err
}

// mediaErr builds an error shaped like the ones the services return.
func mediaErr(op string, kind error, msg string) error {
	return domain.NewMediaError("https://www.youtube.com/watch?v=x", op, domain.WithKind(kind, errors.New(msg)))
}
