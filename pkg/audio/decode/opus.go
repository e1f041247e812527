// ABOUTME: Ogg Opus audio decoder
// ABOUTME: Decodes Ogg-encapsulated Opus to float samples at 48kHz
package decode

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/Resonate-Protocol/scribe-go/pkg/audio"
	"gopkg.in/hraban/opus.v2"
)

// Opus always decodes at 48kHz regardless of the input sample rate field
const opusSampleRate = 48000

// Max frame size is 120ms at 48kHz
const opusMaxFrame = 5760

// OpusDecoder decodes Ogg Opus audio
type OpusDecoder struct{}

// NewOpus creates a new Opus decoder
func NewOpus() *OpusDecoder {
	return &OpusDecoder{}
}

// Decode converts Ogg Opus bytes to float samples
func (d *OpusDecoder) Decode(data []byte) (*audio.Decoded, error) {
	if len(data) == 0 {
		return nil, decodeErr(CodecOpus, ErrEmpty)
	}

	channels, err := opusChannels(data)
	if err != nil {
		return nil, decodeErr(CodecOpus, err)
	}

	stream, err := opus.NewStream(bytes.NewReader(data))
	if err != nil {
		return nil, decodeErr(CodecOpus, fmt.Errorf("failed to open opus stream: %w", err))
	}
	defer stream.Close()

	var interleaved []float32
	buf := make([]float32, opusMaxFrame*channels)
	for {
		n, err := stream.ReadFloat32(buf)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, decodeErr(CodecOpus, fmt.Errorf("opus decode failed: %w", err))
		}
		interleaved = append(interleaved, buf[:n*channels]...)
	}

	return finish(CodecOpus, audio.Deinterleave(interleaved, opusSampleRate, channels))
}

// Close releases decoder resources
func (d *OpusDecoder) Close() error {
	return nil
}

// opusChannels reads the output channel count from the OpusHead packet
func opusChannels(data []byte) (int, error) {
	idx := bytes.Index(data, []byte("OpusHead"))
	if idx < 0 || idx+10 > len(data) {
		return 0, errors.New("missing OpusHead packet")
	}
	channels := int(data[idx+9])
	if channels == 0 {
		return 0, errors.New("OpusHead declares zero channels")
	}
	return channels, nil
}
