package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/iconidentify/vgrabba/internal/domain"
	"github.com/iconidentify/vgrabba/internal/downloader"
)

type mockFetcher struct {
	body        string
	contentType string
	err         error
	calls       int
}

func (m *mockFetcher) Fetch(ctx context.Context, url string) (*downloader.Response, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return &downloader.Response{
		Body:          io.NopCloser(strings.NewReader(m.body)),
		ContentType:   m.contentType,
		ContentLength: int64(len(m.body)),
	}, nil
}

func thumbnailFilter() *domain.HostFilter {
	return domain.NewHostFilter([]string{"ytimg.com"}, nil)
}

func TestThumbnailService_Fetch(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		contentType string
		wantName    string
		wantType    string
	}{
		{"jpeg", "My Video", "image/jpeg", "My_Video.jpg", "image/jpeg"},
		{"webp", "clip", "image/webp", "clip.webp", "image/webp"},
		{"png", "clip", "image/png", "clip.png", "image/png"},
		{"missing type", "", "", "thumbnail.jpg", "image/jpeg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &mockFetcher{body: "img", contentType: tt.contentType}
			svc := NewThumbnailService(fetcher, thumbnailFilter(), testLogger())

			artifact, err := svc.Fetch(context.Background(), "https://i.ytimg.com/vi/abc/hq.jpg", tt.title)
			if err != nil {
				t.Fatalf("Fetch() error = %v", err)
			}
			if artifact.Filename != tt.wantName {
				t.Errorf("Filename = %q, want %q", artifact.Filename, tt.wantName)
			}
			if artifact.ContentType != tt.wantType {
				t.Errorf("ContentType = %q, want %q", artifact.ContentType, tt.wantType)
			}
			if string(artifact.Data) != "img" {
				t.Errorf("Data = %q, want %q", artifact.Data, "img")
			}
		})
	}
}

func TestThumbnailService_Fetch_Validation(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"missing", ""},
		{"foreign host", "http://169.254.169.254/latest/meta-data"},
		{"relative", "/vi/abc/hq.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &mockFetcher{}
			svc := NewThumbnailService(fetcher, thumbnailFilter(), testLogger())

			_, err := svc.Fetch(context.Background(), tt.url, "x")
			if !errors.Is(err, domain.ErrInvalidRequest) {
				t.Errorf("error = %v, want ErrInvalidRequest", err)
			}
			if fetcher.calls != 0 {
				t.Errorf("fetcher called %d times, want 0", fetcher.calls)
			}
		})
	}
}

func TestThumbnailService_Fetch_UpstreamError(t *testing.T) {
	fetcher := &mockFetcher{err: downloader.ErrForbidden}
	svc := NewThumbnailService(fetcher, thumbnailFilter(), testLogger())

	_, err := svc.Fetch(context.Background(), "https://i.ytimg.com/vi/abc/hq.jpg", "x")
	if !errors.Is(err, domain.ErrExtractionFailure) {
		t.Errorf("error = %v, want ErrExtractionFailure", err)
	}
	if !errors.Is(err, downloader.ErrForbidden) {
		t.Errorf("error should wrap the upstream cause, got %v", err)
	}
}
