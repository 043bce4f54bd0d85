package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/iconidentify/vgrabba/internal/config"
)

// HTTPDownloader implements Fetcher using HTTP requests.
type HTTPDownloader struct {
	client    *http.Client
	userAgent string
	cfg       config.DownloadConfig
	logger    *slog.Logger
}

// NewHTTPDownloader creates a new HTTP fetcher.
func NewHTTPDownloader(cfg config.DownloadConfig) *HTTPDownloader {
	return &HTTPDownloader{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		userAgent: cfg.UserAgent,
		cfg:       cfg,
		logger:    slog.Default(),
	}
}

// SetLogger sets the logger for retry reporting.
func (d *HTTPDownloader) SetLogger(logger *slog.Logger) {
	d.logger = logger
}

// Fetch GETs url with retry on rate limiting and transient failures.
// The body is capped at the configured MaxBytes.
func (d *HTTPDownloader) Fetch(ctx context.Context, url string) (*Response, error) {
	resp, err := RetryWithCheck(ctx, retryConfigFor(d.cfg), func() (*Response, error) {
		resp, err := d.fetchOnce(ctx, url)
		if err != nil && isRetryableError(err) && ctx.Err() == nil {
			d.logger.Debug("fetch failed, retrying", "url", url, "error", err)
		}
		return resp, err
	}, isRetryableError)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	return resp, nil
}

// retryConfigFor overlays the configured retry settings on the defaults.
func retryConfigFor(cfg config.DownloadConfig) RetryConfig {
	rc := DefaultRetryConfig()
	if cfg.MaxAttempts > 0 {
		rc.MaxAttempts = cfg.MaxAttempts
	}
	if cfg.RetryDelay > 0 {
		rc.InitialDelay = cfg.RetryDelay
	}
	if cfg.MaxRetryDelay > 0 {
		rc.MaxDelay = cfg.MaxRetryDelay
	}
	return rc
}

func (d *HTTPDownloader) fetchOnce(ctx context.Context, url string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", d.userAgent)
	req.Header.Set("Accept", "image/webp,image/*;q=0.9,*/*;q=0.8")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusUnauthorized:
		resp.Body.Close()
		return nil, ErrForbidden
	case resp.StatusCode == http.StatusTooManyRequests:
		resp.Body.Close()
		return nil, ErrRateLimited
	case resp.StatusCode != http.StatusOK:
		resp.Body.Close()
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	if d.cfg.MaxBytes > 0 && resp.ContentLength > d.cfg.MaxBytes {
		resp.Body.Close()
		return nil, ErrTooLarge
	}

	body := resp.Body
	if d.cfg.MaxBytes > 0 {
		body = &limitedBody{ReadCloser: resp.Body, remaining: d.cfg.MaxBytes}
	}

	return &Response{
		Body:          body,
		ContentType:   resp.Header.Get("Content-Type"),
		ContentLength: resp.ContentLength,
	}, nil
}

// StatusError reports an unexpected upstream status.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %s", e.Status)
}

func isRetryableError(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	if errors.Is(err, ErrForbidden) || errors.Is(err, ErrTooLarge) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code >= 500
	}
	return true
}

// limitedBody fails reads past the size limit instead of truncating silently.
type limitedBody struct {
	io.ReadCloser
	remaining int64
}

func (l *limitedBody) Read(p []byte) (int, error) {
	if l.remaining <= 0 {
		// Probe for one more byte to tell EOF from overflow.
		var one [1]byte
		n, err := l.ReadCloser.Read(one[:])
		if n > 0 {
			return 0, ErrTooLarge
		}
		return 0, err
	}
	if int64(len(p)) > l.remaining {
		p = p[:l.remaining]
	}
	n, err := l.ReadCloser.Read(p)
	l.remaining -= int64(n)
	return n, err
}
