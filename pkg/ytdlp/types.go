package ytdlp

// Result is the subset of yt-dlp's info dict used by the server.
type Result struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Thumbnail string   `json:"thumbnail"`
	Duration  *float64 `json:"duration"`
	Uploader  string   `json:"uploader"`
	Ext       string   `json:"ext"`
	Formats   []Format `json:"formats"`

	// Download bookkeeping, set when media was written.
	Filepath           string              `json:"filepath"`
	Filename           string              `json:"filename"`
	LegacyFilename     string              `json:"_filename"`
	RequestedDownloads []RequestedDownload `json:"requested_downloads"`
}

// Format is one entry of the formats list. Any field may be missing.
type Format struct {
	FormatID   string   `json:"format_id"`
	Protocol   string   `json:"protocol"`
	Ext        string   `json:"ext"`
	VCodec     string   `json:"vcodec"`
	ACodec     string   `json:"acodec"`
	FormatNote string   `json:"format_note"`
	Format     string   `json:"format"`
	Filesize   *float64 `json:"filesize"`
	MimeType   string   `json:"mime_type"`
}

// FilesizeBytes returns the exact size in bytes, or nil if unknown.
func (f Format) FilesizeBytes() *int64 {
	if f.Filesize == nil {
		return nil
	}
	n := int64(*f.Filesize)
	return &n
}

// RequestedDownload describes a file written during a download run.
type RequestedDownload struct {
	FormatID string `json:"format_id"`
	Ext      string `json:"ext"`
	Filepath string `json:"filepath"`
}
