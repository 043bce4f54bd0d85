package domain

import (
	"fmt"
	"math"
	"strings"
)

// FormatKind classifies a raw format entry.
type FormatKind int

const (
	// KindExcluded entries are not offered: no codecs, or video without audio.
	KindExcluded FormatKind = iota
	KindAudioVideo
	KindAudioOnly
)

const bytesPerMB = 1024 * 1024

// codecPresent reports whether the extractor named a real codec.
func codecPresent(codec string) bool {
	return codec != "" && codec != "none"
}

// Classify returns the kind of a raw format entry.
func Classify(f RawFormat) FormatKind {
	hasVideo := codecPresent(f.VideoCodec)
	hasAudio := codecPresent(f.AudioCodec)

	switch {
	case hasVideo && hasAudio:
		return KindAudioVideo
	case hasAudio:
		return KindAudioOnly
	default:
		return KindExcluded
	}
}

// OptionID returns the identifier to advertise for f:
// format_id, then protocol, then "unknown".
func OptionID(f RawFormat) string {
	return firstNonEmpty(f.FormatID, f.Protocol, unknown)
}

// Quality returns the quality note for f: format_note, then format, then "unknown".
func Quality(f RawFormat) string {
	return firstNonEmpty(f.FormatNote, f.Format, unknown)
}

// SizeLabel converts a byte count to "<n.nn> MB". Nil in, nil out.
func SizeLabel(bytes *int64) *string {
	if bytes == nil {
		return nil
	}
	s := fmt.Sprintf("%.2f MB", float64(*bytes)/bytesPerMB)
	return &s
}

// NormalizeFormats turns the extractor's format list into download options.
// Extractor order is kept; duplicate ids keep the first occurrence.
func NormalizeFormats(formats []RawFormat) []DownloadOption {
	options := make([]DownloadOption, 0, len(formats))
	seen := make(map[string]bool, len(formats))

	for _, f := range formats {
		kind := Classify(f)
		if kind == KindExcluded {
			continue
		}

		id := OptionID(f)
		if seen[id] {
			continue
		}
		seen[id] = true

		ext := firstNonEmpty(f.Ext, unknown)
		quality := Quality(f)

		var label string
		if kind == KindAudioVideo {
			label = ext + " - " + quality
		} else {
			label = "Audio only - " + quality
		}

		options = append(options, DownloadOption{
			ID:         id,
			Label:      label,
			Format:     ext,
			Quality:    quality,
			SizeLabel:  SizeLabel(f.Filesize),
			MimeType:   optional(f.MimeType),
			VideoCodec: optional(f.VideoCodec),
			AudioCodec: optional(f.AudioCodec),
		})
	}

	return options
}

// HumanizeDuration renders seconds as "1h 2m 3s", omitting zero components.
// Zero renders as "0s". Nil, NaN, infinite, negative and out-of-range values
// render as "N/A". Fractions round to the nearest second.
func HumanizeDuration(seconds *float64) string {
	if seconds == nil || math.IsNaN(*seconds) || math.IsInf(*seconds, 0) || *seconds < 0 {
		return "N/A"
	}
	rounded := math.Round(*seconds)
	if rounded >= math.MaxInt64 {
		return "N/A"
	}
	return FormatSeconds(int64(rounded))
}

// FormatSeconds renders a whole number of seconds in "1h 2m 3s" form.
func FormatSeconds(total int64) string {
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60

	parts := make([]string, 0, 3)
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	if secs > 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%ds", secs))
	}

	return strings.Join(parts, " ")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
