// ABOUTME: Audio type definitions
// ABOUTME: Defines audio clips, decoded sample buffers and stream formats
package audio

import (
	"fmt"
	"time"
)

// Format describes a PCM audio stream
type Format struct {
	Codec      string
	SampleRate int
	Channels   int
	BitDepth   int
}

// Clip is an audio payload tagged with the container it is encoded in.
// Clips are passed by value and replaced, never modified in place.
type Clip struct {
	Data     []byte
	MimeType string
	Name     string
	Duration time.Duration // zero when unknown
}

// Canonical reports whether the clip is already in the canonical container
func (c Clip) Canonical() bool {
	return IsCanonical(c.MimeType, c.Name)
}

// Empty reports whether the clip carries no audio bytes
func (c Clip) Empty() bool {
	return len(c.Data) == 0
}

// Decoded holds raw audio as one float sample slice per channel.
// Samples are nominally in [-1.0, 1.0] and every channel has the same length.
type Decoded struct {
	SampleRate int
	Channels   [][]float32
}

// ChannelCount returns the number of channels
func (d *Decoded) ChannelCount() int {
	return len(d.Channels)
}

// Frames returns the number of frames (samples per channel)
func (d *Decoded) Frames() int {
	if len(d.Channels) == 0 {
		return 0
	}
	return len(d.Channels[0])
}

// Duration returns the playback length of the decoded audio
func (d *Decoded) Duration() time.Duration {
	if d.SampleRate <= 0 {
		return 0
	}
	return time.Duration(d.Frames()) * time.Second / time.Duration(d.SampleRate)
}

// Validate checks the invariants every decoder must uphold
func (d *Decoded) Validate() error {
	if d.SampleRate <= 0 {
		return fmt.Errorf("invalid sample rate: %d", d.SampleRate)
	}
	if len(d.Channels) == 0 {
		return fmt.Errorf("no channels")
	}
	frames := len(d.Channels[0])
	for ch, samples := range d.Channels {
		if len(samples) != frames {
			return fmt.Errorf("channel %d has %d frames, expected %d", ch, len(samples), frames)
		}
	}
	return nil
}

// NewDecoded allocates silent audio with the given shape
func NewDecoded(sampleRate, channels, frames int) *Decoded {
	d := &Decoded{
		SampleRate: sampleRate,
		Channels:   make([][]float32, channels),
	}
	for ch := range d.Channels {
		d.Channels[ch] = make([]float32, frames)
	}
	return d
}

// Deinterleave splits interleaved float samples into per-channel slices.
// Trailing samples that do not fill a whole frame are dropped.
func Deinterleave(interleaved []float32, sampleRate, channels int) *Decoded {
	if channels <= 0 {
		channels = 1
	}
	frames := len(interleaved) / channels
	d := NewDecoded(sampleRate, channels, frames)
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			d.Channels[ch][i] = interleaved[i*channels+ch]
		}
	}
	return d
}
