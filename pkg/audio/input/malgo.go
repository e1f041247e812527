// ABOUTME: Malgo-based audio capture implementation
// ABOUTME: Uses miniaudio via malgo to record raw 16-bit PCM into WAV
package input

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/Resonate-Protocol/scribe-go/pkg/audio"
	"github.com/gen2brain/malgo"
)

// Malgo captures from the default input device using malgo/miniaudio
type Malgo struct{}

// NewMalgo creates a new Malgo device
func NewMalgo() *Malgo {
	return &Malgo{}
}

// Supports reports whether the device can record mimeType
func (m *Malgo) Supports(mimeType string) bool {
	return mimeType == audio.MimeWAV
}

// Acquire opens and starts the default capture device
func (m *Malgo) Acquire(ctx context.Context, c Constraints) (Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.EchoCancellation || c.NoiseSuppression {
		log.Printf("Warning: malgo captures raw audio, ignoring echo cancellation and noise suppression")
	}

	malgoCtx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize malgo context: %w", err)
	}

	s := &malgoStream{
		sampleRate: c.SampleRate,
		channels:   c.ChannelCount,
		malgoCtx:   malgoCtx,
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.Format = malgo.FormatS16
	deviceConfig.Capture.Channels = uint32(c.ChannelCount)
	deviceConfig.SampleRate = uint32(c.SampleRate)
	deviceConfig.Alsa.NoMMap = 1

	deviceCallbacks := malgo.DeviceCallbacks{
		Data: s.onData,
		Stop: s.onStop,
	}

	device, err := malgo.InitDevice(malgoCtx.Context, deviceConfig, deviceCallbacks)
	if err != nil {
		s.freeContext()
		return nil, fmt.Errorf("failed to initialize capture device: %w", err)
	}

	if err := device.Start(); err != nil {
		device.Uninit()
		s.freeContext()
		return nil, fmt.Errorf("failed to start capture device: %w", err)
	}
	s.device = device

	log.Printf("Audio capture initialized: %dHz, %d channels, 16-bit (malgo)", c.SampleRate, c.ChannelCount)
	return s, nil
}

type malgoStream struct {
	sampleRate int
	channels   int
	malgoCtx   *malgo.AllocatedContext
	device     *malgo.Device

	mu       sync.Mutex
	rec      *pcmRecorder
	released bool
}

// Record starts buffering captured audio into a WAV recorder
func (s *malgoStream) Record(mimeType string) (Recorder, error) {
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
	rec = newPCMRecorder(s.sampleRate, s.channels, func() { s.detach(rec) })
	s.rec = rec
	return rec, nil
}

// onData is called by malgo with captured frames
func (s *malgoStream) onData(_, input []byte, _ uint32) {
	s.mu.Lock()
	rec := s.rec
	s.mu.Unlock()

	if rec != nil {
		rec.write(input)
	}
}

// onStop is called by malgo whenever the device stops
func (s *malgoStream) onStop() {
	s.mu.Lock()
	released := s.released
	rec := s.rec
	s.mu.Unlock()

	if !released && rec != nil {
		rec.fail(errDeviceStopped)
	}
}

func (s *malgoStream) detach(rec *pcmRecorder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rec == rec {
		s.rec = nil
	}
}

// Release stops the device and frees the malgo context
func (s *malgoStream) Release() error {
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

	if s.device != nil {
		if err := s.device.Stop(); err != nil {
			log.Printf("Warning: capture device stop error: %v", err)
		}
		s.device.Uninit()
		s.device = nil
	}
	s.freeContext()

	log.Printf("Audio capture released")
	return nil
}

func (s *malgoStream) freeContext() {
	if s.malgoCtx == nil {
		return
	}
	if err := s.malgoCtx.Uninit(); err != nil {
		log.Printf("Warning: malgo context uninit error: %v", err)
	}
	s.malgoCtx.Free()
	s.malgoCtx = nil
}
