package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/iconidentify/vgrabba/internal/config"
)

// ErrNoOutputPath is returned when a result names no downloaded file.
var ErrNoOutputPath = errors.New("extractor result has no output path")

// Options is the per-call extractor configuration. Each call builds its
// own value; nothing is shared between invocations.
type Options struct {
	// Permissive tolerates per-item errors (--ignore-errors) instead of aborting.
	Permissive bool
	// Quiet suppresses warnings and progress output.
	Quiet bool
	// SkipDownload fetches metadata only.
	SkipDownload bool
	// Format pins the format selector (-f). Empty means extractor default.
	Format string
	// OutputTemplate is passed through as -o.
	OutputTemplate string
}

// InfoOptions returns the configuration for a metadata-only call.
func InfoOptions(permissive bool) Options {
	return Options{
		Permissive:   permissive,
		Quiet:        true,
		SkipDownload: true,
	}
}

// DownloadOptions returns the configuration for a download pinned to formatID.
// Errors are never tolerated so a failed format cannot degrade to another one.
func DownloadOptions(formatID, outputTemplate string) Options {
	return Options{
		Permissive:     false,
		Quiet:          true,
		Format:         formatID,
		OutputTemplate: outputTemplate,
	}
}

// Args renders the options as yt-dlp command line flags, excluding the URL.
func (o Options) Args() []string {
	// -J prints one JSON document for the whole extraction.
	args := []string{"--dump-single-json", "--no-playlist", "--no-progress", "--no-color"}

	if o.Quiet {
		args = append(args, "--quiet", "--no-warnings")
	}
	if o.Permissive {
		args = append(args, "--ignore-errors")
	} else {
		args = append(args, "--abort-on-error")
	}
	if o.SkipDownload {
		args = append(args, "--skip-download")
	} else {
		// -J implies simulate unless told otherwise.
		args = append(args, "--no-simulate")
	}
	if o.Format != "" {
		args = append(args, "--format", o.Format)
	}
	if o.OutputTemplate != "" {
		args = append(args, "--output", o.OutputTemplate)
	}
	return args
}

// Error is returned when yt-dlp exits unsuccessfully.
type Error struct {
	ExitCode int
	Message  string
}

func (e *Error) Error() string {
	return e.Message
}

// Client runs the yt-dlp binary.
type Client struct {
	binaryPath string
	extraArgs  []string
	logger     *slog.Logger
}

// NewClient creates a new yt-dlp client.
func NewClient(cfg config.ExtractorConfig) *Client {
	binary := cfg.BinaryPath
	if binary == "" {
		binary = "yt-dlp"
	}
	return &Client{
		binaryPath: binary,
		extraArgs:  cfg.ExtraArgs,
		logger:     slog.Default(),
	}
}

// SetLogger sets the logger used for command diagnostics.
func (c *Client) SetLogger(logger *slog.Logger) {
	c.logger = logger
}

// BinaryPath returns the configured executable.
func (c *Client) BinaryPath() string {
	return c.binaryPath
}

// Available reports whether the yt-dlp binary can be found.
func (c *Client) Available() error {
	if _, err := exec.LookPath(c.binaryPath); err != nil {
		return fmt.Errorf("yt-dlp not found: %w", err)
	}
	return nil
}

// ExtractInfo fetches metadata for url without downloading media.
// A nil result with a nil error means the extractor produced nothing.
func (c *Client) ExtractInfo(ctx context.Context, url string, permissive bool) (*Result, error) {
	return c.Extract(ctx, url, InfoOptions(permissive))
}

// ExtractAndDownload downloads exactly formatID to outputTemplate.
// A nil result with a nil error means the extractor produced nothing.
func (c *Client) ExtractAndDownload(ctx context.Context, url, formatID, outputTemplate string) (*Result, error) {
	return c.Extract(ctx, url, DownloadOptions(formatID, outputTemplate))
}

// Extract runs yt-dlp with opts and parses its JSON output.
func (c *Client) Extract(ctx context.Context, url string, opts Options) (*Result, error) {
	args := append(opts.Args(), c.extraArgs...)
	args = append(args, "--", url)

	cmd := exec.CommandContext(ctx, c.binaryPath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	c.logger.Debug("running yt-dlp",
		"binary", c.binaryPath,
		"url", url,
		"format", opts.Format,
		"permissive", opts.Permissive,
	)

	runErr := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("yt-dlp interrupted: %w", ctxErr)
	}

	var exitErr *exec.ExitError
	if runErr != nil && !errors.As(runErr, &exitErr) {
		return nil, fmt.Errorf("run yt-dlp: %w", runErr)
	}

	out := bytes.TrimSpace(stdout.Bytes())
	empty := len(out) == 0 || string(out) == "null"

	if runErr != nil {
		// In permissive mode a failing run may still carry a usable document;
		// with nothing on stdout there is simply no result.
		if opts.Permissive {
			if empty {
				c.logger.Debug("yt-dlp produced no result", "url", url, "stderr", lastErrorLine(stderr.String()))
				return nil, nil
			}
		} else {
			return nil, &Error{
				ExitCode: exitErr.ExitCode(),
				Message:  errorMessage(stderr.String(), exitErr),
			}
		}
	}

	if empty {
		return nil, nil
	}

	var result Result
	if err := json.Unmarshal(out, &result); err != nil {
		return nil, fmt.Errorf("parse yt-dlp output: %w", err)
	}
	return &result, nil
}

// ResolveOutputPath returns the file yt-dlp actually wrote for result.
func (c *Client) ResolveOutputPath(result *Result) (string, error) {
	if result == nil {
		return "", ErrNoOutputPath
	}
	for i := len(result.RequestedDownloads) - 1; i >= 0; i-- {
		if p := result.RequestedDownloads[i].Filepath; p != "" {
			return p, nil
		}
	}
	if result.Filepath != "" {
		return result.Filepath, nil
	}
	if result.Filename != "" {
		return result.Filename, nil
	}
	if result.LegacyFilename != "" {
		return result.LegacyFilename, nil
	}
	return "", ErrNoOutputPath
}

func errorMessage(stderr string, exitErr *exec.ExitError) string {
	if line := lastErrorLine(stderr); line != "" {
		return line
	}
	return fmt.Sprintf("yt-dlp exited with status %d", exitErr.ExitCode())
}

// lastErrorLine returns the last "ERROR:" line of yt-dlp's stderr, or the
// last non-empty line when there is none.
func lastErrorLine(stderr string) string {
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	var last string
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		if last == "" {
			last = line
		}
		if strings.HasPrefix(line, "ERROR:") {
			return line
		}
	}
	return last
}
