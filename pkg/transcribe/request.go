// ABOUTME: Outbound transcription request construction
// ABOUTME: Normalizes upload names and builds the buffered multipart body
package transcribe

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/Resonate-Protocol/scribe-go/pkg/audio"
)

// FieldName is the multipart field carrying the audio
const FieldName = "file"

// DefaultUploadName is used when a clip has no WAV name
const DefaultUploadName = "audio.wav"

// Endpoint is the path appended to the service base URL
const Endpoint = "/transcribe"

// UploadName returns name when it already ends in .wav, otherwise the default
func UploadName(name string) string {
	if strings.HasSuffix(strings.ToLower(name), audio.CanonicalExt) {
		return name
	}
	return DefaultUploadName
}

// Body builds the multipart body for clip and returns it with its content type
func Body(clip audio.Clip) ([]byte, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile(FieldName, UploadName(clip.Name))
	if err != nil {
		return nil, "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(clip.Data); err != nil {
		return nil, "", fmt.Errorf("write audio data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return buf.Bytes(), writer.FormDataContentType(), nil
}

// NewRequest builds POST {baseURL}/transcribe carrying clip
func NewRequest(ctx context.Context, baseURL string, clip audio.Clip) (*http.Request, error) {
	body, contentType, err := Body(clip)
	if err != nil {
		return nil, err
	}

	url := strings.TrimRight(baseURL, "/") + Endpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	return req, nil
}
