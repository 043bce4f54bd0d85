package downloader

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrForbidden is returned when the upstream refuses access (401/403).
	ErrForbidden = errors.New("upstream refused access")

	// ErrRateLimited is returned when the upstream answers 429.
	ErrRateLimited = errors.New("rate limited")

	// ErrTooLarge is returned when a response exceeds the configured size limit.
	ErrTooLarge = errors.New("response exceeds size limit")
)

// Fetcher fetches small remote resources such as thumbnails.
type Fetcher interface {
	// Fetch GETs url. Caller is responsible for closing Body.
	Fetch(ctx context.Context, url string) (*Response, error)
}

// Response is a successful upstream response.
type Response struct {
	Body          io.ReadCloser
	ContentType   string
	ContentLength int64
}
