// ABOUTME: Container MIME types and canonical container checks
// ABOUTME: Names the recording and upload containers the pipeline understands
package audio

import (
	"path/filepath"
	"strings"
)

// Container MIME types in the order the recorder prefers them, followed by
// upload-only types.
const (
	MimeWAV     = "audio/wav"
	MimeWebMPCM = "audio/webm;codecs=pcm"
	MimeWebM    = "audio/webm"
	MimeMP4     = "audio/mp4"

	MimeMPEG = "audio/mpeg"
	MimeFLAC = "audio/flac"
	MimeOgg  = "audio/ogg"
)

// CanonicalExt is the file extension of the canonical container
const CanonicalExt = ".wav"

// IsCanonical reports whether a payload with this MIME type or file name is
// already in the canonical uncompressed PCM container.
func IsCanonical(mimeType, name string) bool {
	if mimeType == MimeWAV {
		return true
	}
	return strings.HasSuffix(strings.ToLower(name), CanonicalExt)
}

// MimeForName guesses a MIME type from a file name extension.
// Returns "" for unknown extensions.
func MimeForName(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".wav", ".wave":
		return MimeWAV
	case ".webm":
		return MimeWebM
	case ".mp4", ".m4a", ".aac":
		return MimeMP4
	case ".mp3":
		return MimeMPEG
	case ".flac":
		return MimeFLAC
	case ".ogg", ".opus", ".oga":
		return MimeOgg
	default:
		return ""
	}
}

// ExtForMime returns the file extension for a MIME type, or "" if unknown.
// Codec parameters are ignored.
func ExtForMime(mimeType string) string {
	base, _, _ := strings.Cut(mimeType, ";")
	switch strings.TrimSpace(base) {
	case MimeWAV:
		return ".wav"
	case MimeWebM:
		return ".webm"
	case MimeMP4:
		return ".mp4"
	case MimeMPEG:
		return ".mp3"
	case MimeFLAC:
		return ".flac"
	case MimeOgg:
		return ".ogg"
	default:
		return ""
	}
}
