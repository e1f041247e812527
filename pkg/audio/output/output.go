// ABOUTME: Audio output interface definition
// ABOUTME: Common interface for audio playback backends and the Play helper
package output

import (
	"context"
	"fmt"

	"github.com/Resonate-Protocol/scribe-go/pkg/audio"
	"github.com/Resonate-Protocol/scribe-go/pkg/audio/resample"
)

// Output represents an audio output device
type Output interface {
	// Open initializes the output device
	Open(sampleRate, channels int) error

	// Write outputs interleaved samples (blocks until written)
	Write(samples []float32) error

	// Drain blocks until everything written has been played
	Drain() error

	// Close releases output resources
	Close() error
}

// FixedFormat is implemented by outputs that cannot change format once opened.
// Format returns zeros before the first Open.
type FixedFormat interface {
	Format() (sampleRate, channels int)
}

// writeFrames is the number of frames per Write (100ms at 48kHz)
const writeFrames = 4800

// Play writes decoded audio to out and waits for it to finish.
// Audio is converted to the output's format when it is fixed.
func Play(ctx context.Context, out Output, d *audio.Decoded) error {
	if err := d.Validate(); err != nil {
		return fmt.Errorf("cannot play audio: %w", err)
	}

	if fixed, ok := out.(FixedFormat); ok {
		if rate, channels := fixed.Format(); rate > 0 && channels > 0 {
			d = remix(resample.To(d, rate), channels)
		}
	}

	if err := out.Open(d.SampleRate, d.ChannelCount()); err != nil {
		return err
	}

	channels := d.ChannelCount()
	frames := d.Frames()
	buf := make([]float32, 0, writeFrames*channels)
	for start := 0; start < frames; start += writeFrames {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := min(start+writeFrames, frames)
		buf = buf[:0]
		for i := start; i < end; i++ {
			for ch := 0; ch < channels; ch++ {
				buf = append(buf, d.Channels[ch][i])
			}
		}
		if err := out.Write(buf); err != nil {
			return err
		}
	}

	return out.Drain()
}

// remix converts d to the requested channel count. Mono is duplicated to
// every channel; anything mixed down to mono is averaged.
func remix(d *audio.Decoded, channels int) *audio.Decoded {
	have := d.ChannelCount()
	if have == channels {
		return d
	}

	out := audio.NewDecoded(d.SampleRate, channels, d.Frames())
	switch {
	case have == 1:
		for ch := range out.Channels {
			copy(out.Channels[ch], d.Channels[0])
		}
	case channels == 1:
		for i := range out.Channels[0] {
			var sum float32
			for ch := 0; ch < have; ch++ {
				sum += d.Channels[ch][i]
			}
			out.Channels[0][i] = sum / float32(have)
		}
	default:
		for ch := 0; ch < channels && ch < have; ch++ {
			copy(out.Channels[ch], d.Channels[ch])
		}
	}
	return out
}
