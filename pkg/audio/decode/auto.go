// ABOUTME: Codec dispatch for decoders
// ABOUTME: Creates decoders by codec name or by sniffing the payload
package decode

import (
	"errors"
	"fmt"

	"github.com/Resonate-Protocol/scribe-go/pkg/audio"
)

// New creates a decoder for the named codec
func New(codec string) (Decoder, error) {
	switch codec {
	case CodecWAV:
		return NewWAV(), nil
	case CodecMP3:
		return NewMP3(), nil
	case CodecFLAC:
		return NewFLAC(), nil
	case CodecOpus:
		return NewOpus(), nil
	case CodecWebM, CodecMP4, CodecAAC:
		return NewFFmpeg(""), nil
	default:
		return nil, fmt.Errorf("invalid codec: %s", codec)
	}
}

// Option configures an Auto decoder
type Option func(*Auto)

// WithFFmpeg enables the ffmpeg fallback for containers without a native
// decoder. An empty path looks ffmpeg up on PATH.
func WithFFmpeg(path string) Option {
	return func(a *Auto) {
		a.ffmpeg = NewFFmpeg(path)
	}
}

// Auto sniffs each payload and dispatches to the matching decoder
type Auto struct {
	native map[string]Decoder
	ffmpeg *FFmpegDecoder
}

// NewAuto creates a sniffing decoder
func NewAuto(opts ...Option) *Auto {
	a := &Auto{
		native: map[string]Decoder{
			CodecWAV:  NewWAV(),
			CodecMP3:  NewMP3(),
			CodecFLAC: NewFLAC(),
			CodecOpus: NewOpus(),
		},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Decode detects the container and decodes it
func (a *Auto) Decode(data []byte) (*audio.Decoded, error) {
	if len(data) == 0 {
		return nil, decodeErr("", ErrEmpty)
	}

	codec := Detect(data)
	if dec, ok := a.native[codec]; ok {
		return dec.Decode(data)
	}

	if a.ffmpeg == nil {
		if codec == "" {
			return nil, decodeErr("", errors.New("unrecognised container"))
		}
		return nil, decodeErr(codec, errors.New("no native decoder and ffmpeg fallback disabled"))
	}
	return a.ffmpeg.Decode(data)
}

// Close releases all child decoders
func (a *Auto) Close() error {
	var errs []error
	for _, dec := range a.native {
		errs = append(errs, dec.Close())
	}
	if a.ffmpeg != nil {
		errs = append(errs, a.ffmpeg.Close())
	}
	return errors.Join(errs...)
}
