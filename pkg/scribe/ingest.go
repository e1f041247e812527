// ABOUTME: File ingestion for uploaded audio
// ABOUTME: Normalizes user-supplied files to the canonical container
package scribe

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Resonate-Protocol/scribe-go/pkg/audio"
)

// File is an uploaded audio payload
type File struct {
	Data     []byte
	MimeType string
	Name     string
}

// Ingest normalizes an uploaded file. WAV files, identified by MIME type
// or extension, are returned byte-identical; everything else is converted
// with the same fallback policy as recordings.
func (n *Normalizer) Ingest(f File) Result {
	clip := audio.Clip{
		Data:     f.Data,
		MimeType: f.MimeType,
		Name:     f.Name,
	}
	return n.Normalize(clip, SourceUpload)
}

// IngestPath reads a file from disk and ingests it, inferring the MIME type
// from its extension. Only read failures are returned as errors.
func (n *Normalizer) IngestPath(path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return n.Ingest(File{
		Data:     data,
		MimeType: audio.MimeForName(path),
		Name:     filepath.Base(path),
	}), nil
}
