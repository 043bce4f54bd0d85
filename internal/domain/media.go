package domain

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// DefaultContentType is served for extensions missing from the table.
const DefaultContentType = "application/octet-stream"

var contentTypes = map[string]string{
	".mp4":  "video/mp4",
	".webm": "video/webm",
	".mp3":  "audio/mpeg",
	".aac":  "audio/aac",
}

// ContentTypeForFile returns the media type for a downloaded file by extension.
func ContentTypeForFile(name string) string {
	if ct, ok := contentTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return ct
	}
	return DefaultContentType
}

// AttachmentDisposition returns a Content-Disposition value for filename.
func AttachmentDisposition(filename string) string {
	// Quotes and line breaks would end the header parameter early.
	clean := strings.NewReplacer(`"`, "'", "\r", "", "\n", "").Replace(filename)
	return fmt.Sprintf(`attachment; filename="%s"`, clean)
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9\-_]`)

// ThumbnailFilename builds "<safe title>.<ext>" from an upstream content type.
func ThumbnailFilename(title, contentType string) string {
	if title == "" {
		title = "thumbnail"
	}
	return unsafeFilenameChars.ReplaceAllString(title, "_") + "." + ThumbnailExtension(contentType)
}

// ThumbnailExtension maps an image content type to a file extension.
func ThumbnailExtension(contentType string) string {
	switch ct := strings.ToLower(contentType); {
	case strings.Contains(ct, "webp"):
		return "webp"
	case strings.Contains(ct, "png"):
		return "png"
	default:
		return "jpg"
	}
}
