// ABOUTME: WAV container decoder
// ABOUTME: Walks RIFF chunks and converts PCM or float sample data
package decode

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/Resonate-Protocol/scribe-go/pkg/audio"
)

const (
	wavFormatPCM        = 0x0001
	wavFormatFloat      = 0x0003
	wavFormatExtensible = 0xFFFE
)

type wavFormat struct {
	tag        uint16
	channels   int
	sampleRate int
	bitDepth   int
}

// WAVDecoder decodes RIFF/WAVE payloads
type WAVDecoder struct{}

// NewWAV creates a new WAV decoder
func NewWAV() *WAVDecoder {
	return &WAVDecoder{}
}

// Decode parses the RIFF chunks and converts the data chunk to float samples
func (d *WAVDecoder) Decode(data []byte) (*audio.Decoded, error) {
	if len(data) == 0 {
		return nil, decodeErr(CodecWAV, ErrEmpty)
	}
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, decodeErr(CodecWAV, errors.New("missing RIFF/WAVE header"))
	}

	var (
		format  *wavFormat
		samples []byte
	)

	pos := 12
	for pos+8 <= len(data) {
		id := string(data[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		body := pos + 8
		end := body + size
		// Streamed files may carry a placeholder size on the last chunk
		if end > len(data) || end < body {
			end = len(data)
		}

		switch id {
		case "fmt ":
			f, err := parseWAVFormat(data[body:end])
			if err != nil {
				return nil, decodeErr(CodecWAV, err)
			}
			format = f
		case "data":
			samples = data[body:end]
		}

		if samples != nil && format != nil {
			break
		}
		pos = end + (end-body)%2
	}

	if format == nil {
		return nil, decodeErr(CodecWAV, errors.New("missing fmt chunk"))
	}
	if samples == nil {
		return nil, decodeErr(CodecWAV, errors.New("missing data chunk"))
	}

	decoded, err := convertWAVSamples(format, samples)
	if err != nil {
		return nil, decodeErr(CodecWAV, err)
	}
	return finish(CodecWAV, decoded)
}

// Close releases decoder resources
func (d *WAVDecoder) Close() error {
	return nil
}

func parseWAVFormat(b []byte) (*wavFormat, error) {
	if len(b) < 16 {
		return nil, fmt.Errorf("fmt chunk too short: %d bytes", len(b))
	}

	f := &wavFormat{
		tag:        binary.LittleEndian.Uint16(b[0:2]),
		channels:   int(binary.LittleEndian.Uint16(b[2:4])),
		sampleRate: int(binary.LittleEndian.Uint32(b[4:8])),
		bitDepth:   int(binary.LittleEndian.Uint16(b[14:16])),
	}

	if f.tag == wavFormatExtensible {
		if len(b) < 26 {
			return nil, errors.New("extensible fmt chunk too short")
		}
		// First two bytes of the sub-format GUID carry the real format tag
		f.tag = binary.LittleEndian.Uint16(b[24:26])
	}

	if f.channels == 0 {
		return nil, errors.New("zero channels")
	}
	if f.sampleRate == 0 {
		return nil, errors.New("zero sample rate")
	}

	switch {
	case f.tag == wavFormatPCM && (f.bitDepth == 8 || f.bitDepth == 16 || f.bitDepth == 24 || f.bitDepth == 32):
	case f.tag == wavFormatFloat && (f.bitDepth == 32 || f.bitDepth == 64):
	default:
		return nil, fmt.Errorf("unsupported format tag 0x%04x with %d bits", f.tag, f.bitDepth)
	}
	return f, nil
}

func convertWAVSamples(f *wavFormat, b []byte) (*audio.Decoded, error) {
	bytesPerSample := f.bitDepth / 8
	frameSize := bytesPerSample * f.channels
	frames := len(b) / frameSize

	decoded := audio.NewDecoded(f.sampleRate, f.channels, frames)
	for i := 0; i < frames; i++ {
		for ch := 0; ch < f.channels; ch++ {
			off := i*frameSize + ch*bytesPerSample
			decoded.Channels[ch][i] = wavSample(f, b[off:off+bytesPerSample])
		}
	}
	return decoded, nil
}

func wavSample(f *wavFormat, b []byte) float32 {
	if f.tag == wavFormatFloat {
		if f.bitDepth == 64 {
			return float32(math.Float64frombits(binary.LittleEndian.Uint64(b)))
		}
		return math.Float32frombits(binary.LittleEndian.Uint32(b))
	}

	switch f.bitDepth {
	case 8:
		// 8-bit WAV is unsigned
		return float32(int(b[0])-128) / 128
	case 16:
		return audio.Int16ToFloat(int16(binary.LittleEndian.Uint16(b)))
	case 24:
		return audio.IntToFloat(audio.SampleFrom24Bit([3]byte{b[0], b[1], b[2]}), 24)
	default:
		return audio.IntToFloat(int32(binary.LittleEndian.Uint32(b)), 32)
	}
}
