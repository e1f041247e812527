// ABOUTME: Decoder interface definition
// ABOUTME: Common interface and error type for all audio decoders
package decode

import (
	"errors"
	"fmt"

	"github.com/Resonate-Protocol/scribe-go/pkg/audio"
)

// Codec names understood by New and reported by Detect
const (
	CodecWAV  = "wav"
	CodecMP3  = "mp3"
	CodecFLAC = "flac"
	CodecOpus = "opus"
	CodecWebM = "webm"
	CodecMP4  = "mp4"
	CodecAAC  = "aac"
)

// ErrEmpty is returned (wrapped in a DecodeError) for zero-length input
var ErrEmpty = errors.New("empty input")

// Decoder decodes a complete encoded payload to float samples
type Decoder interface {
	// Decode converts encoded audio data to per-channel samples
	Decode(data []byte) (*audio.Decoded, error)

	// Close releases decoder resources
	Close() error
}

// DecodeError reports that a payload could not be decoded
type DecodeError struct {
	Codec string
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Codec == "" {
		return fmt.Sprintf("decode failed: %v", e.Err)
	}
	return fmt.Sprintf("%s decode failed: %v", e.Codec, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func decodeErr(codec string, err error) error {
	return &DecodeError{Codec: codec, Err: err}
}

// finish validates decoder output so callers never see malformed audio
func finish(codec string, d *audio.Decoded) (*audio.Decoded, error) {
	if err := d.Validate(); err != nil {
		return nil, decodeErr(codec, err)
	}
	if d.Frames() == 0 {
		return nil, decodeErr(codec, errors.New("no audio frames"))
	}
	return d, nil
}
