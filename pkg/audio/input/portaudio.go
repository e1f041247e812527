//go:build portaudio

// ABOUTME: PortAudio capture implementation
// ABOUTME: Cross-platform microphone capture using PortAudio
package input

import (
	"context"
	"encoding/binary"
	"fmt"
	"log"
	"sync"

	"github.com/Resonate-Protocol/scribe-go/pkg/audio"
	"github.com/gordonklaus/portaudio"
)

// framesPerBuffer is the PortAudio callback size (about 23ms at 44.1kHz)
const framesPerBuffer = 1024

// PortAudio captures from the default input device using PortAudio
type PortAudio struct{}

// NewPortAudio creates a new PortAudio device
func NewPortAudio() *PortAudio {
	return &PortAudio{}
}

// Supports reports whether the device can record mimeType
func (p *PortAudio) Supports(mimeType string) bool {
	return mimeType == audio.MimeWAV
}

// Acquire initializes PortAudio and starts the default input stream
func (p *PortAudio) Acquire(ctx context.Context, c Constraints) (Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize portaudio: %w", err)
	}

	s := &portAudioStream{
		sampleRate: c.SampleRate,
		channels:   c.ChannelCount,
	}

	stream, err := portaudio.OpenDefaultStream(c.ChannelCount, 0, float64(c.SampleRate), framesPerBuffer, s.onData)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("failed to open stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("failed to start stream: %w", err)
	}
	s.stream = stream

	log.Printf("Audio capture initialized: %dHz, %d channels, 16-bit (portaudio)", c.SampleRate, c.ChannelCount)
	return s, nil
}

type portAudioStream struct {
	sampleRate int
	channels   int
	stream     *portaudio.Stream

	mu       sync.Mutex
	rec      *pcmRecorder
	released bool
}

// Record starts buffering captured audio into a WAV recorder
func (s *portAudioStream) Record(mimeType string) (Recorder, error) {
	if mimeType != audio.MimeWAV {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, mimeType)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.released {
		return nil, ErrReleased
	}
	if s.rec != nil {
		return nil, fmt.Errorf("recorder already active")
	}

	var rec *pcmRecorder
	rec = newPCMRecorder(s.sampleRate, s.channels, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.rec == rec {
			s.rec = nil
		}
	})
	s.rec = rec
	return rec, nil
}

func (s *portAudioStream) onData(in []int16) {
	s.mu.Lock()
	rec := s.rec
	s.mu.Unlock()

	if rec == nil {
		return
	}
	buf := make([]byte, len(in)*2)
	for i, sample := range in {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(sample))
	}
	rec.write(buf)
}

// Release stops the stream and terminates PortAudio
func (s *portAudioStream) Release() error {
	s.mu.Lock()
	if s.released {
		s.mu.Unlock()
		return nil
	}
	s.released = true
	rec := s.rec
	s.mu.Unlock()

	if rec != nil {
		rec.fail(ErrReleased)
	}

	if s.stream != nil {
		if err := s.stream.Stop(); err != nil {
			log.Printf("Warning: portaudio stop error: %v", err)
		}
		if err := s.stream.Close(); err != nil {
			log.Printf("Warning: portaudio close error: %v", err)
		}
	}
	return portaudio.Terminate()
}
