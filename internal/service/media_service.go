package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/iconidentify/vgrabba/internal/domain"
	"github.com/iconidentify/vgrabba/pkg/ytdlp"
)

// Extractor resolves video URLs into metadata and media files.
// A nil result with a nil error means the extractor produced nothing.
type Extractor interface {
	ExtractInfo(ctx context.Context, url string, permissive bool) (*ytdlp.Result, error)
	ExtractAndDownload(ctx context.Context, url, formatID, outputTemplate string) (*ytdlp.Result, error)
	ResolveOutputPath(result *ytdlp.Result) (string, error)
}

// outputTemplate names the downloaded file after the media title and native extension.
const outputTemplate = "%(title)s.%(ext)s"

var (
	errMissingURL    = errors.New("missing video URL")
	errMissingParams = errors.New("missing parameters (url or formatId)")
)

// MediaService resolves video metadata and downloads single formats.
type MediaService struct {
	extractor Extractor
	filter    *domain.HostFilter
	tempRoot  string
	logger    *slog.Logger
}

// NewMediaService creates a new media service. Each download gets its own
// directory under tempRoot.
func NewMediaService(extractor Extractor, filter *domain.HostFilter, tempRoot string, logger *slog.Logger) *MediaService {
	return &MediaService{
		extractor: extractor,
		filter:    filter,
		tempRoot:  tempRoot,
		logger:    logger,
	}
}

// Resolve returns the normalized VideoInfo for rawURL.
func (s *MediaService) Resolve(ctx context.Context, rawURL string) (*domain.VideoInfo, error) {
	const op = "resolve"

	req := domain.NewInfoRequest(rawURL)
	if !req.Valid() {
		return nil, domain.NewMediaError(rawURL, op, domain.WithKind(domain.ErrInvalidRequest, errMissingURL))
	}
	if err := s.checkURL(req.URL); err != nil {
		return nil, domain.NewMediaError(rawURL, op, err)
	}

	result, err := s.extractor.ExtractInfo(ctx, req.URL, true)
	if err != nil {
		s.logger.Warn("info extraction failed", "url", rawURL, "error", err)
		return nil, domain.NewMediaError(rawURL, op, domain.WithKind(domain.ErrExtractionFailure, err))
	}
	if result == nil {
		return nil, domain.NewMediaError(rawURL, op, domain.ErrUnavailable)
	}

	info := domain.NewVideoInfo(toRawInfo(result))

	s.logger.Info("resolved video",
		"url", rawURL,
		"title", info.Title,
		"formats", len(result.Formats),
		"options", len(info.Options),
	)

	return info, nil
}

// Download materializes formatID of rawURL and returns its bytes.
// The request's temporary directory is removed before Download returns,
// on every path.
func (s *MediaService) Download(ctx context.Context, rawURL, formatID string) (artifact *domain.Artifact, err error) {
	const op = "download"

	tr := newDownloadTracker(s.logger, rawURL, formatID)
	defer func() {
		if r := recover(); r != nil {
			artifact = nil
			err = domain.NewMediaError(rawURL, op, domain.WithKind(domain.ErrExtractionFailure, fmt.Errorf("panic: %v", r)))
		}
		if err != nil {
			tr.fail(err)
		}
	}()

	req := domain.NewDownloadRequest(rawURL, formatID)
	if !req.Valid() {
		return nil, domain.NewMediaError(rawURL, op, domain.WithKind(domain.ErrInvalidRequest, errMissingParams))
	}
	if err := s.checkURL(rawURL); err != nil {
		return nil, domain.NewMediaError(rawURL, op, err)
	}

	dir, err := s.acquireDir()
	if err != nil {
		return nil, domain.NewMediaError(rawURL, op, domain.WithKind(domain.ErrExtractionFailure, err))
	}
	defer s.releaseDir(dir)

	tr.advance(domain.StateExtracting)
	result, err := s.extractor.ExtractAndDownload(ctx, req.URL, req.FormatID, filepath.Join(dir, outputTemplate))
	if err != nil {
		return nil, domain.NewMediaError(rawURL, op, domain.WithKind(domain.ErrExtractionFailure, err))
	}
	if result == nil {
		return nil, domain.NewMediaError(rawURL, op, domain.ErrUnavailable)
	}

	tr.advance(domain.StateLocating)
	path, err := s.locate(result, dir)
	if err != nil {
		return nil, domain.NewMediaError(rawURL, op, err)
	}

	tr.advance(domain.StateReading)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewMediaError(rawURL, op, domain.WithKind(domain.ErrExtractionFailure, fmt.Errorf("read output: %w", err)))
	}

	tr.advance(domain.StateResponding)
	name := filepath.Base(path)

	s.logger.Info("downloaded format",
		"url", rawURL,
		"format_id", formatID,
		"file", name,
		"size_bytes", len(data),
	)

	return &domain.Artifact{
		Filename:    name,
		ContentType: domain.ContentTypeForFile(name),
		Data:        data,
	}, nil
}

// locate resolves the file the extractor wrote and checks it is inside dir.
func (s *MediaService) locate(result *ytdlp.Result, dir string) (string, error) {
	path, err := s.extractor.ResolveOutputPath(result)
	if err != nil {
		return "", domain.WithKind(domain.ErrStorageInconsistency, err)
	}

	rel, err := filepath.Rel(dir, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", domain.WithKind(domain.ErrStorageInconsistency,
			fmt.Errorf("output %q is outside the request directory", path))
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", domain.WithKind(domain.ErrStorageInconsistency, err)
		}
		return "", domain.WithKind(domain.ErrExtractionFailure, fmt.Errorf("stat output: %w", err))
	}
	if info.IsDir() {
		return "", domain.WithKind(domain.ErrStorageInconsistency, fmt.Errorf("output %q is a directory", path))
	}
	return path, nil
}

func (s *MediaService) checkURL(rawURL string) error {
	if _, err := s.filter.Check(rawURL); err != nil {
		return domain.WithKind(domain.ErrInvalidRequest, err)
	}
	return nil
}

// acquireDir creates a directory no other request can share.
func (s *MediaService) acquireDir() (string, error) {
	if err := os.MkdirAll(s.tempRoot, 0755); err != nil {
		return "", fmt.Errorf("create temp root: %w", err)
	}
	dir := filepath.Join(s.tempRoot, "dl-"+uuid.NewString())
	if err := os.Mkdir(dir, 0700); err != nil {
		return "", fmt.Errorf("create request dir: %w", err)
	}
	return dir, nil
}

func (s *MediaService) releaseDir(dir string) {
	if err := os.RemoveAll(dir); err != nil {
		s.logger.Error("failed to remove request dir", "dir", dir, "error", err)
	}
}

func toRawInfo(r *ytdlp.Result) domain.RawInfo {
	formats := make([]domain.RawFormat, 0, len(r.Formats))
	for _, f := range r.Formats {
		formats = append(formats, domain.RawFormat{
			FormatID:   f.FormatID,
			Protocol:   f.Protocol,
			Ext:        f.Ext,
			VideoCodec: f.VCodec,
			AudioCodec: f.ACodec,
			FormatNote: f.FormatNote,
			Format:     f.Format,
			Filesize:   f.FilesizeBytes(),
			MimeType:   f.MimeType,
		})
	}
	return domain.RawInfo{
		Title:     r.Title,
		Thumbnail: r.Thumbnail,
		Duration:  r.Duration,
		Uploader:  r.Uploader,
		Formats:   formats,
	}
}

// downloadTracker logs the lifecycle of one download request.
type downloadTracker struct {
	state  domain.DownloadState
	logger *slog.Logger
}

func newDownloadTracker(logger *slog.Logger, url, formatID string) *downloadTracker {
	return &downloadTracker{
		state:  domain.StateValidating,
		logger: logger.With("url", url, "format_id", formatID),
	}
}

func (t *downloadTracker) advance(to domain.DownloadState) {
	if !domain.CanTransition(t.state, to) {
		t.logger.Warn("unexpected download state transition", "from", t.state, "to", to)
	}
	t.logger.Debug("download state", "from", t.state, "to", to)
	t.state = to
}

func (t *downloadTracker) fail(err error) {
	from := t.state
	t.advance(domain.StateFailed)
	t.logger.Warn("download failed", "state", from, "error", err)
}
