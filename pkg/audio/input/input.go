// ABOUTME: Audio capture interface definitions
// ABOUTME: Common interfaces for microphone devices, streams and recorders
package input

import (
	"context"
	"errors"
)

// ErrUnsupportedFormat is returned when a stream cannot record a container
var ErrUnsupportedFormat = errors.New("unsupported recording format")

// ErrReleased is returned when recording on a released stream
var ErrReleased = errors.New("stream released")

// Constraints are the capture settings requested from a device
type Constraints struct {
	SampleRate       int
	ChannelCount     int
	EchoCancellation bool
	NoiseSuppression bool
}

// DefaultConstraints returns mono 44.1kHz capture with processing disabled
func DefaultConstraints() Constraints {
	return Constraints{
		SampleRate:       44100,
		ChannelCount:     1,
		EchoCancellation: false,
		NoiseSuppression: false,
	}
}

// Device represents an audio input device
type Device interface {
	// Acquire opens the device and starts capturing. Fails if access is
	// denied or no device is present.
	Acquire(ctx context.Context, c Constraints) (Stream, error)

	// Supports reports whether streams from this device can record mimeType
	Supports(mimeType string) bool
}

// Stream is an acquired capture stream
type Stream interface {
	// Record starts a recorder producing the given container
	Record(mimeType string) (Recorder, error)

	// Release stops capture and frees the device
	Release() error
}

// Recorder delivers encoded chunks for one recording
type Recorder interface {
	// Data yields encoded chunks in order; closed after the final flush
	Data() <-chan []byte

	// Stop requests the final flush
	Stop() error

	// Err reports the failure that ended the recording early, if any
	Err() error
}
