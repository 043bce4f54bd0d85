package domain

// Defaults used when the extractor omits top-level metadata.
const (
	DefaultTitle  = "Unknown Title"
	DefaultAuthor = "Unknown Author"
	unknown       = "unknown"
)

// ExtractionMode selects what an extractor invocation does.
type ExtractionMode int

const (
	// ModeInfoOnly retrieves metadata without media bytes.
	ModeInfoOnly ExtractionMode = iota
	// ModeDownloadFormat retrieves one pinned format to transient storage.
	ModeDownloadFormat
)

func (m ExtractionMode) String() string {
	switch m {
	case ModeInfoOnly:
		return "info_only"
	case ModeDownloadFormat:
		return "download_format"
	default:
		return "unknown"
	}
}

// ExtractionRequest describes one extractor invocation.
// FormatID is set iff Mode is ModeDownloadFormat.
type ExtractionRequest struct {
	URL      string
	Mode     ExtractionMode
	FormatID string
}

// NewInfoRequest creates an info-only extraction request.
func NewInfoRequest(url string) ExtractionRequest {
	return ExtractionRequest{URL: url, Mode: ModeInfoOnly}
}

// NewDownloadRequest creates a download request pinned to formatID.
func NewDownloadRequest(url, formatID string) ExtractionRequest {
	return ExtractionRequest{URL: url, Mode: ModeDownloadFormat, FormatID: formatID}
}

// Valid reports whether the request satisfies the mode/format invariant.
func (r ExtractionRequest) Valid() bool {
	if r.URL == "" {
		return false
	}
	switch r.Mode {
	case ModeInfoOnly:
		return r.FormatID == ""
	case ModeDownloadFormat:
		return r.FormatID != ""
	default:
		return false
	}
}

// RawFormat is one format entry as reported by the extractor.
// Empty strings and nil pointers mean the field was absent.
type RawFormat struct {
	FormatID   string
	Protocol   string
	Ext        string
	VideoCodec string
	AudioCodec string
	FormatNote string
	Format     string
	Filesize   *int64
	MimeType   string
}

// RawInfo is the subset of extractor output the resolver reads.
type RawInfo struct {
	Title     string
	Thumbnail string
	Duration  *float64
	Uploader  string
	Formats   []RawFormat
}

// DownloadOption is one selectable format offered to the client.
// ID is opaque to the client and must be echoed back unchanged as formatId.
type DownloadOption struct {
	ID         string  `json:"id"`
	Label      string  `json:"label"`
	Format     string  `json:"format"`
	Quality    string  `json:"quality"`
	SizeLabel  *string `json:"size"`
	MimeType   *string `json:"mimeType"`
	VideoCodec *string `json:"vcodec"`
	AudioCodec *string `json:"acodec"`
}

// VideoInfo is the response document of the metadata endpoint.
type VideoInfo struct {
	Title     string           `json:"title"`
	Thumbnail string           `json:"thumbnail"`
	Duration  string           `json:"duration"`
	Author    string           `json:"author"`
	Options   []DownloadOption `json:"options"`
}

// NewVideoInfo builds the normalized document from raw extractor output.
func NewVideoInfo(raw RawInfo) *VideoInfo {
	info := &VideoInfo{
		Title:     raw.Title,
		Thumbnail: raw.Thumbnail,
		Duration:  HumanizeDuration(raw.Duration),
		Author:    raw.Uploader,
		Options:   NormalizeFormats(raw.Formats),
	}
	if info.Title == "" {
		info.Title = DefaultTitle
	}
	if info.Author == "" {
		info.Author = DefaultAuthor
	}
	return info
}

// Artifact is a downloaded media file read into memory.
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ContentDisposition returns the attachment header value for the artifact.
func (a *Artifact) ContentDisposition() string {
	return AttachmentDisposition(a.Filename)
}
