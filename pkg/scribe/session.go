// ABOUTME: Capture session state machine
// ABOUTME: Owns the device stream, recorder, timer and finalization of one recording
package scribe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Resonate-Protocol/scribe-go/pkg/audio"
	"github.com/Resonate-Protocol/scribe-go/pkg/audio/input"
	"github.com/google/uuid"
)

// State is the lifecycle state of a capture session
type State int

const (
	Idle State = iota
	Recording
	Stopping
	Finalized
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Recording:
		return "recording"
	case Stopping:
		return "stopping"
	case Finalized:
		return "finalized"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// errRecorderEnded is reported when the recorder closes without a stop request
var errRecorderEnded = errors.New("recorder ended before stop was requested")

// SessionConfig holds capture session configuration
type SessionConfig struct {
	// Device provides the microphone stream
	Device input.Device

	// Constraints requested from the device (default: input.DefaultConstraints())
	Constraints input.Constraints

	// Normalizer converts non-WAV recordings (default: NewNormalizer(nil))
	Normalizer *Normalizer

	// MaxDuration stops the recording automatically when positive
	MaxDuration time.Duration

	// TickInterval is the recording timer period (default: 1s)
	TickInterval time.Duration

	// Metrics receives recording events (optional)
	Metrics Metrics

	// OnState is called after every state transition
	OnState func(State)

	// OnTick is called with the elapsed whole seconds while recording
	OnTick func(seconds int)
}

// Session records one clip at a time from an input device
type Session struct {
	config SessionConfig

	mu       sync.Mutex
	state    State
	starting bool
	id       string
	format   FormatChoice
	recorder input.Recorder
	release  func()
	elapsed  int
	started  time.Time
	stopTick chan struct{}
	done     chan struct{}
	result   Result
	err      error
}

// NewSession creates a capture session
func NewSession(config SessionConfig) (*Session, error) {
	if config.Device == nil {
		return nil, fmt.Errorf("device is required")
	}
	if config.Constraints == (input.Constraints{}) {
		config.Constraints = input.DefaultConstraints()
	}
	if config.Normalizer == nil {
		config.Normalizer = NewNormalizer(nil)
	}
	if config.TickInterval <= 0 {
		config.TickInterval = time.Second
	}
	if config.Metrics == nil {
		config.Metrics = nopMetrics{}
	}

	return &Session{
		config: config,
		state:  Idle,
	}, nil
}

// Start acquires the device and begins recording. A DeviceAccessError
// leaves the session state unchanged. Starting a Finalized session
// records a new clip that supersedes the previous one.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	switch {
	case s.starting || s.state == Recording || s.state == Stopping:
		s.mu.Unlock()
		return ErrSessionBusy
	case s.state == Failed:
		s.mu.Unlock()
		return ErrSessionFailed
	}
	s.starting = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.starting = false
		s.mu.Unlock()
	}()

	stream, err := s.config.Device.Acquire(ctx, s.config.Constraints)
	if err != nil {
		return &DeviceAccessError{Err: err}
	}
	release := sync.OnceFunc(func() {
		if err := stream.Release(); err != nil {
			log.Printf("Warning: failed to release input device: %v", err)
		}
	})

	format := SelectFormat(s.config.Device.Supports)
	recorder, err := stream.Record(format.MimeType)
	if err != nil {
		release()
		return &DeviceAccessError{Err: fmt.Errorf("failed to start %s recorder: %w", format.MimeType, err)}
	}

	id := uuid.New().String()
	stopTick := make(chan struct{})
	done := make(chan struct{})

	s.mu.Lock()
	s.id = id
	s.format = format
	s.recorder = recorder
	s.release = release
	s.elapsed = 0
	s.started = time.Now()
	s.stopTick = stopTick
	s.done = done
	s.result = Result{}
	s.err = nil
	s.state = Recording
	s.mu.Unlock()

	log.Printf("Recording started: session=%s format=%s", id, format.MimeType)
	s.notify(Recording)

	go s.collect(recorder, done)
	go s.tick(stopTick)
	return nil
}

// Stop requests the final flush and releases the device. It is a no-op
// unless the session is Recording. Finalization completes asynchronously;
// use Wait for the result.
func (s *Session) Stop() error {
	s.mu.Lock()
	if s.state != Recording {
		s.mu.Unlock()
		return nil
	}
	s.state = Stopping
	s.stopTimerLocked()
	recorder := s.recorder
	release := s.release
	s.mu.Unlock()

	s.notify(Stopping)

	err := recorder.Stop()
	if err != nil {
		log.Printf("Warning: recorder stop failed: %v", err)
	}
	release()
	return err
}

// Wait blocks until the current recording is finalized or fails
func (s *Session) Wait(ctx context.Context) (Result, error) {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()

	if done == nil {
		return Result{}, ErrNotStarted
	}

	select {
	case <-done:
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result, s.err
}

// State returns the current state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Elapsed returns whole seconds recorded so far, frozen once stopped
func (s *Session) Elapsed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsed
}

// Format returns the container negotiated for the current recording
func (s *Session) Format() FormatChoice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.format
}

// ID returns the identifier of the current recording
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// collect accumulates chunks in delivery order until the recorder closes
func (s *Session) collect(recorder input.Recorder, done chan struct{}) {
	var chunks [][]byte
	for chunk := range recorder.Data() {
		if len(chunk) > 0 {
			chunks = append(chunks, chunk)
		}
	}
	s.finalize(recorder, chunks, done)
}

func (s *Session) finalize(recorder input.Recorder, chunks [][]byte, done chan struct{}) {
	s.mu.Lock()
	stopRequested := s.state == Stopping
	s.stopTimerLocked()
	release := s.release
	format := s.format
	id := s.id
	wall := time.Since(s.started)
	s.mu.Unlock()

	// Release is idempotent; this covers recorders that end on their own
	release()

	recErr := recorder.Err()
	if recErr == nil && !stopRequested {
		recErr = errRecorderEnded
	}
	if recErr != nil {
		log.Printf("Recording failed: session=%s: %v", id, recErr)
		s.mu.Lock()
		s.state = Failed
		s.err = fmt.Errorf("capture device error: %w", recErr)
		close(done)
		s.mu.Unlock()
		s.notify(Failed)
		return
	}

	clip := audio.Clip{
		Data:     bytes.Join(chunks, nil),
		MimeType: format.MimeType,
		Name:     "recording" + audio.ExtForMime(format.MimeType),
		Duration: wall,
	}
	s.config.Metrics.RecordRecording(format.MimeType, wall)

	var result Result
	if format.IsCanonicalPCM {
		result = Result{Clip: clip}
		result.Clip.Name = DefaultName
		s.config.Metrics.RecordConversion(SourceRecording, StatusPassthrough)
		s.config.Metrics.RecordClip(SourceRecording, len(clip.Data))
	} else {
		result = s.config.Normalizer.Normalize(clip, SourceRecording)
	}

	log.Printf("Recording finalized: session=%s bytes=%d mime=%s converted=%v",
		id, len(result.Clip.Data), result.Clip.MimeType, result.Converted)

	s.mu.Lock()
	s.state = Finalized
	s.result = result
	close(done)
	s.mu.Unlock()
	s.notify(Finalized)
}

// tick advances the recording timer until stopped
func (s *Session) tick(stop <-chan struct{}) {
	ticker := time.NewTicker(s.config.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		s.mu.Lock()
		if s.state != Recording {
			s.mu.Unlock()
			return
		}
		s.elapsed++
		elapsed := s.elapsed
		s.mu.Unlock()

		if s.config.OnTick != nil {
			s.config.OnTick(elapsed)
		}

		if s.config.MaxDuration > 0 && time.Duration(elapsed)*s.config.TickInterval >= s.config.MaxDuration {
			log.Printf("Recording reached maximum duration of %v, stopping", s.config.MaxDuration)
			s.Stop()
			return
		}
	}
}

// stopTimerLocked stops the timer goroutine (must hold s.mu)
func (s *Session) stopTimerLocked() {
	if s.stopTick != nil {
		close(s.stopTick)
		s.stopTick = nil
	}
}

func (s *Session) notify(state State) {
	if s.config.OnState != nil {
		s.config.OnState(state)
	}
}
