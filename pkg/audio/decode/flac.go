// ABOUTME: FLAC audio decoder
// ABOUTME: Decodes FLAC audio to float samples via mewkiz/flac
package decode

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/Resonate-Protocol/scribe-go/pkg/audio"
	"github.com/mewkiz/flac"
)

// FLACDecoder decodes FLAC audio
type FLACDecoder struct{}

// NewFLAC creates a new FLAC decoder
func NewFLAC() *FLACDecoder {
	return &FLACDecoder{}
}

// Decode converts FLAC bytes to float samples
func (d *FLACDecoder) Decode(data []byte) (*audio.Decoded, error) {
	if len(data) == 0 {
		return nil, decodeErr(CodecFLAC, ErrEmpty)
	}

	stream, err := flac.New(bytes.NewReader(data))
	if err != nil {
		return nil, decodeErr(CodecFLAC, fmt.Errorf("failed to open flac stream: %w", err))
	}
	defer stream.Close()

	channels := int(stream.Info.NChannels)
	bitDepth := int(stream.Info.BitsPerSample)
	decoded := &audio.Decoded{
		SampleRate: int(stream.Info.SampleRate),
		Channels:   make([][]float32, channels),
	}
	if stream.Info.NSamples > 0 {
		for ch := range decoded.Channels {
			decoded.Channels[ch] = make([]float32, 0, stream.Info.NSamples)
		}
	}

	for {
		frame, err := stream.ParseNext()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, decodeErr(CodecFLAC, fmt.Errorf("frame parse failed: %w", err))
		}
		if len(frame.Subframes) != channels {
			return nil, decodeErr(CodecFLAC, fmt.Errorf("frame has %d subframes, expected %d", len(frame.Subframes), channels))
		}

		for ch, sub := range frame.Subframes {
			for _, sample := range sub.Samples {
				decoded.Channels[ch] = append(decoded.Channels[ch], audio.IntToFloat(sample, bitDepth))
			}
		}
	}

	return finish(CodecFLAC, decoded)
}

// Close releases decoder resources
func (d *FLACDecoder) Close() error {
	return nil
}
