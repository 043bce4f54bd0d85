package domain

import "errors"

// Domain errors.
var (
	// ErrInvalidRequest is returned when required input is missing or malformed.
	// No extractor call is made.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrUnavailable is returned when the extractor ran but produced no result
	// (removed, private or otherwise inaccessible video).
	ErrUnavailable = errors.New("video unavailable")

	// ErrExtractionFailure is returned when the extractor fails during its own processing.
	ErrExtractionFailure = errors.New("extraction failed")

	// ErrStorageInconsistency is returned when the extractor reported success
	// but the expected output file is missing.
	ErrStorageInconsistency = errors.New("downloaded file not found")

	// ErrInvalidURL is returned when a URL cannot be parsed or is not absolute.
	ErrInvalidURL = errors.New("invalid URL format")

	// ErrUnsupportedHost is returned when a URL does not belong to the supported platform.
	ErrUnsupportedHost = errors.New("unsupported video host")
)

// MediaError wraps an error with request context.
type MediaError struct {
	URL string
	Op  string
	Err error
}

func (e *MediaError) Error() string {
	if e.URL != "" {
		return e.Op + " [" + e.URL + "]: " + e.Err.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *MediaError) Unwrap() error {
	return e.Err
}

// NewMediaError creates a new MediaError.
func NewMediaError(url, op string, err error) *MediaError {
	return &MediaError{
		URL: url,
		Op:  op,
		Err: err,
	}
}

// kindError tags an underlying error with one of the sentinel kinds above
// while keeping the underlying message as the error text.
type kindError struct {
	kind error
	err  error
}

func (e *kindError) Error() string { return e.err.Error() }

func (e *kindError) Unwrap() []error { return []error{e.kind, e.err} }

// WithKind marks err as being of the given kind. errors.Is matches both
// the kind and err; Error() returns err's message unchanged.
func WithKind(kind, err error) error {
	if err == nil {
		return kind
	}
	return &kindError{kind: kind, err: err}
}
