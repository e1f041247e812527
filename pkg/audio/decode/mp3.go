// ABOUTME: MP3 audio decoder
// ABOUTME: Decodes MP3 audio to float samples via go-mp3
package decode

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/Resonate-Protocol/scribe-go/pkg/audio"
	"github.com/hajimehoshi/go-mp3"
)

// go-mp3 always produces interleaved stereo 16-bit little-endian PCM
const mp3Channels = 2

// MP3Decoder decodes MP3 audio
type MP3Decoder struct{}

// NewMP3 creates a new MP3 decoder
func NewMP3() *MP3Decoder {
	return &MP3Decoder{}
}

// Decode converts MP3 bytes to float samples
func (d *MP3Decoder) Decode(data []byte) (*audio.Decoded, error) {
	if len(data) == 0 {
		return nil, decodeErr(CodecMP3, ErrEmpty)
	}

	decoder, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, decodeErr(CodecMP3, fmt.Errorf("failed to create mp3 decoder: %w", err))
	}

	pcm, err := io.ReadAll(decoder)
	if err != nil {
		return nil, decodeErr(CodecMP3, err)
	}

	frameSize := 2 * mp3Channels
	frames := len(pcm) / frameSize
	decoded := audio.NewDecoded(decoder.SampleRate(), mp3Channels, frames)
	for i := 0; i < frames; i++ {
		for ch := 0; ch < mp3Channels; ch++ {
			sample16 := int16(binary.LittleEndian.Uint16(pcm[i*frameSize+ch*2:]))
			decoded.Channels[ch][i] = audio.Int16ToFloat(sample16)
		}
	}

	return finish(CodecMP3, decoded)
}

// Close releases decoder resources
func (d *MP3Decoder) Close() error {
	return nil
}
