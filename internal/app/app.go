// ABOUTME: Main recorder application orchestration
// ABOUTME: Coordinates capture, conversion, transcription, playback and UI
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/Resonate-Protocol/scribe-go/internal/config"
	"github.com/Resonate-Protocol/scribe-go/internal/discovery"
	"github.com/Resonate-Protocol/scribe-go/internal/observe"
	"github.com/Resonate-Protocol/scribe-go/internal/ui"
	"github.com/Resonate-Protocol/scribe-go/pkg/audio/decode"
	"github.com/Resonate-Protocol/scribe-go/pkg/audio/input"
	"github.com/Resonate-Protocol/scribe-go/pkg/audio/output"
	"github.com/Resonate-Protocol/scribe-go/pkg/scribe"
	"github.com/Resonate-Protocol/scribe-go/pkg/transcribe"
)

var (
	// ErrNoClip is returned by operations that need a recorded or loaded clip
	ErrNoClip = errors.New("no audio clip")

	// ErrNoTranscript is returned when saving before transcribing
	ErrNoTranscript = errors.New("no transcript")

	// ErrBusy is returned while another operation is running
	ErrBusy = errors.New("another operation is in progress")
)

// lookup is replaced in tests
var lookup = discovery.Lookup

// Options overrides the components built from configuration
type Options struct {
	// Device replaces the configured capture backend
	Device input.Device

	// Decoder replaces the configured decoder for conversion and playback
	Decoder decode.Decoder

	// NewOutput creates a playback device (default: oto)
	NewOutput func() output.Output

	// Metrics receives pipeline events (optional)
	Metrics *observe.Metrics

	// OnStatus receives UI updates (optional)
	OnStatus func(ui.StatusMsg)
}

// App holds the recorder state: one session, at most one current clip
// and its transcript.
type App struct {
	cfg        *config.Config
	device     input.Device
	decoder    decode.Decoder
	normalizer *scribe.Normalizer
	client     *transcribe.Client
	newOutput  func() output.Output
	metrics    *observe.Metrics
	onStatus   func(ui.StatusMsg)

	mu         sync.Mutex
	session    *scribe.Session
	clip       *scribe.Result
	transcript string
	busy       bool
	wg         sync.WaitGroup
}

// New creates the application. apiURL is the resolved transcription
// service URL (see ResolveAPI).
func New(cfg *config.Config, apiURL string, opts Options) (*App, error) {
	device := opts.Device
	if device == nil {
		var err error
		device, err = NewDevice(cfg.Capture)
		if err != nil {
			return nil, err
		}
	}

	dec := opts.Decoder
	if dec == nil {
		dec = NewDecoder(cfg.Normalize)
	}

	normalizer := scribe.NewNormalizer(dec)
	normalizer.TargetSampleRate = cfg.Normalize.TargetSampleRate
	if opts.Metrics != nil {
		normalizer.Metrics = opts.Metrics
	}

	newOutput := opts.NewOutput
	if newOutput == nil {
		newOutput = func() output.Output { return output.NewOto() }
	}

	a := &App{
		cfg:        cfg,
		device:     device,
		decoder:    dec,
		normalizer: normalizer,
		client: transcribe.NewClient(transcribe.Config{
			BaseURL: apiURL,
			Timeout: cfg.API.Timeout,
			Retries: cfg.API.Retries,
		}),
		newOutput: newOutput,
		metrics:   opts.Metrics,
		onStatus:  opts.OnStatus,
	}

	a.status(ui.StatusMsg{State: scribe.Idle.String(), APIURL: apiURL})
	return a, nil
}

// NewDevice returns the capture device for the configured backend
func NewDevice(c config.CaptureConfig) (input.Device, error) {
	switch c.Backend {
	case config.BackendMalgo, "":
		return input.NewMalgo(), nil
	case config.BackendPortAudio:
		return input.NewPortAudio(), nil
	case config.BackendFFmpeg:
		dev := input.NewFFmpeg(c.FFmpegPath)
		if c.InputFormat != "" {
			dev.InputFormat = c.InputFormat
		}
		if c.InputDevice != "" {
			dev.InputDevice = c.InputDevice
		}
		return dev, nil
	default:
		return nil, fmt.Errorf("unknown capture backend: %s", c.Backend)
	}
}

// NewDecoder returns the container-sniffing decoder, with the ffmpeg
// fallback when enabled
func NewDecoder(c config.NormalizeConfig) decode.Decoder {
	if c.FFmpeg {
		return decode.NewAuto(decode.WithFFmpeg(c.FFmpegPath))
	}
	return decode.NewAuto()
}

// ResolveAPI returns the transcription service URL. With discovery
// enabled an mDNS answer wins; the configured URL is the fallback.
func ResolveAPI(ctx context.Context, c config.APIConfig) (string, error) {
	if !c.Discover {
		return c.URL, nil
	}

	log.Printf("Looking up transcription service via mDNS...")
	server, err := lookup(ctx, c.DiscoverTimeout)
	if err == nil {
		url := server.URL()
		log.Printf("Discovered transcription service %s at %s", server.Name, url)
		return url, nil
	}

	if c.URL == "" {
		return "", fmt.Errorf("service discovery failed: %w", err)
	}
	log.Printf("Warning: service discovery failed (%v), using %s", err, c.URL)
	return c.URL, nil
}

// sessionLocked returns a usable session, replacing a failed one
func (a *App) sessionLocked() (*scribe.Session, error) {
	if a.session != nil && a.session.State() != scribe.Failed {
		return a.session, nil
	}

	cfg := scribe.SessionConfig{
		Device: a.device,
		Constraints: input.Constraints{
			SampleRate:   a.cfg.Capture.SampleRate,
			ChannelCount: a.cfg.Capture.Channels,
		},
		Normalizer:  a.normalizer,
		MaxDuration: a.cfg.Capture.MaxDuration,
		OnState: func(s scribe.State) {
			a.status(ui.StatusMsg{State: s.String()})
		},
		OnTick: func(seconds int) {
			a.status(ui.StatusMsg{Elapsed: &seconds})
		},
	}
	if a.metrics != nil {
		cfg.Metrics = a.metrics
	}

	session, err := scribe.NewSession(cfg)
	if err != nil {
		return nil, err
	}
	a.session = session
	return session, nil
}

// StartRecording begins a new recording. The result replaces the current
// clip once the session finalizes.
func (a *App) StartRecording(ctx context.Context) error {
	a.mu.Lock()
	session, err := a.sessionLocked()
	a.mu.Unlock()
	if err != nil {
		return err
	}

	if err := session.Start(ctx); err != nil {
		return err
	}

	zero := 0
	a.status(ui.StatusMsg{Format: session.Format().MimeType, Elapsed: &zero})

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.await(ctx, session)
	}()
	return nil
}

// StopRecording requests the final flush. It is a no-op when not recording.
func (a *App) StopRecording() error {
	a.mu.Lock()
	session := a.session
	a.mu.Unlock()

	if session == nil {
		return nil
	}
	return session.Stop()
}

// ToggleRecord starts a recording when idle and stops it when recording
func (a *App) ToggleRecord(ctx context.Context) error {
	if a.Recording() {
		return a.StopRecording()
	}
	return a.StartRecording(ctx)
}

// Recording reports whether a recording is in progress
func (a *App) Recording() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == nil {
		return false
	}
	state := a.session.State()
	return state == scribe.Recording || state == scribe.Stopping
}

// Record captures until stop is closed, ctx is done, or the configured
// maximum duration elapses, and returns the finalized clip.
func (a *App) Record(ctx context.Context, stop <-chan struct{}) (scribe.Result, error) {
	a.mu.Lock()
	session, err := a.sessionLocked()
	a.mu.Unlock()
	if err != nil {
		return scribe.Result{}, err
	}

	if err := session.Start(ctx); err != nil {
		return scribe.Result{}, err
	}

	finished := make(chan struct{})
	defer close(finished)
	go func() {
		select {
		case <-stop:
		case <-ctx.Done():
		case <-finished:
			return
		}
		session.Stop()
	}()

	// Wait must outlive ctx so a cancelled recording still flushes
	result, err := session.Wait(context.Background())
	if err != nil {
		return scribe.Result{}, err
	}
	a.setClip(result)
	return result, nil
}

// await stores the result of the session's current recording
func (a *App) await(ctx context.Context, session *scribe.Session) {
	result, err := session.Wait(context.WithoutCancel(ctx))
	if err != nil {
		log.Printf("Recording failed: %v", err)
		a.status(ui.StatusMsg{Warning: err.Error()})
		return
	}
	a.setClip(result)
}

// Ingest loads an audio file from disk and makes it the current clip
func (a *App) Ingest(path string) (scribe.Result, error) {
	if a.Recording() {
		return scribe.Result{}, scribe.ErrSessionBusy
	}

	result, err := a.normalizer.IngestPath(path)
	if err != nil {
		return scribe.Result{}, err
	}
	a.setClip(result)
	return result, nil
}

func (a *App) setClip(result scribe.Result) {
	a.mu.Lock()
	a.clip = &result
	a.transcript = ""
	a.mu.Unlock()

	msg := ui.StatusMsg{Clip: &ui.ClipInfo{
		Name:      result.Clip.Name,
		MimeType:  result.Clip.MimeType,
		Size:      len(result.Clip.Data),
		Duration:  result.Clip.Duration,
		Converted: result.Converted,
	}}
	if result.Err != nil {
		msg.Warning = fmt.Sprintf("Conversion failed, keeping original: %v", result.Err)
	}
	a.status(msg)
}

// Clip returns the current clip
func (a *App) Clip() (scribe.Result, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.clip == nil {
		return scribe.Result{}, false
	}
	return *a.clip, true
}

// Transcript returns the last transcript of the current clip
func (a *App) Transcript() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.transcript
}

// Transcribe uploads the current clip and stores the transcript
func (a *App) Transcribe(ctx context.Context) (string, error) {
	clip, ok := a.Clip()
	if !ok {
		return "", ErrNoClip
	}

	a.status(ui.StatusMsg{Busy: "Transcribing..."})
	start := time.Now()
	resp, err := a.client.Transcribe(ctx, clip.Clip)
	elapsed := time.Since(start)

	if err != nil {
		a.recordUpload(ctx, observe.UploadError, elapsed)
		a.status(ui.StatusMsg{Done: true, Warning: err.Error()})
		return "", err
	}
	a.recordUpload(ctx, observe.UploadOK, elapsed)

	text := resp.Text()
	a.mu.Lock()
	a.transcript = text
	a.mu.Unlock()

	log.Printf("Transcription received: %d characters in %v", len(text), elapsed.Round(time.Millisecond))
	a.status(ui.StatusMsg{Done: true, Transcript: text})
	return text, nil
}

func (a *App) recordUpload(ctx context.Context, status string, d time.Duration) {
	if a.metrics != nil {
		a.metrics.RecordUpload(ctx, status, d)
	}
}

// Play decodes the current clip and plays it on a fresh output
func (a *App) Play(ctx context.Context) error {
	clip, ok := a.Clip()
	if !ok {
		return ErrNoClip
	}

	decoded, err := a.decoder.Decode(clip.Clip.Data)
	if err != nil {
		return err
	}

	out := a.newOutput()
	defer out.Close()

	a.status(ui.StatusMsg{Busy: "Playing..."})
	defer a.status(ui.StatusMsg{Done: true})

	return output.Play(ctx, out, decoded)
}

// SaveTranscript writes the transcript to path, or to the configured
// transcript path when path is empty
func (a *App) SaveTranscript(path string) (string, error) {
	text := a.Transcript()
	if text == "" {
		return "", ErrNoTranscript
	}
	if path == "" {
		path = a.cfg.Output.TranscriptPath
	}

	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("failed to save transcript: %w", err)
	}

	log.Printf("Transcript saved to %s", path)
	a.status(ui.StatusMsg{Saved: path})
	return path, nil
}

// SaveClip writes the current clip to path, or to the configured clip
// path, or to the clip's own name
func (a *App) SaveClip(path string) (string, error) {
	clip, ok := a.Clip()
	if !ok {
		return "", ErrNoClip
	}
	if path == "" {
		path = a.cfg.Output.ClipPath
	}
	if path == "" {
		path = clip.Clip.Name
	}

	if err := os.WriteFile(path, clip.Clip.Data, 0o644); err != nil {
		return "", fmt.Errorf("failed to save clip: %w", err)
	}

	log.Printf("Clip saved to %s (%d bytes)", path, len(clip.Clip.Data))
	return path, nil
}

// Clear drops the current clip and transcript
func (a *App) Clear() error {
	if a.Recording() {
		return scribe.ErrSessionBusy
	}

	a.mu.Lock()
	a.clip = nil
	a.transcript = ""
	a.mu.Unlock()

	a.status(ui.StatusMsg{Reset: true})
	return nil
}

// Run dispatches TUI actions until ctx is done or the user quits.
// Transcription and playback run in the background, one at a time.
func (a *App) Run(ctx context.Context, ctrl *ui.Controls) error {
	for {
		select {
		case action := <-ctrl.Actions:
			a.handleAction(ctx, action)
		case <-ctrl.Quit:
			log.Printf("Received quit signal from TUI")
			return nil
		case <-ctx.Done():
			return nil
		}
	}
}

func (a *App) handleAction(ctx context.Context, action ui.Action) {
	var err error
	switch action {
	case ui.ActionRecord:
		err = a.ToggleRecord(ctx)
	case ui.ActionTranscribe:
		err = a.background(func() error {
			_, err := a.Transcribe(ctx)
			return err
		})
	case ui.ActionPlay:
		err = a.background(func() error { return a.Play(ctx) })
	case ui.ActionSave:
		if _, err = a.SaveTranscript(""); errors.Is(err, ErrNoTranscript) {
			var path string
			if path, err = a.SaveClip(""); err == nil {
				a.status(ui.StatusMsg{Saved: path})
			}
		}
	case ui.ActionClear:
		err = a.Clear()
	}

	if err != nil {
		log.Printf("Warning: %s failed: %v", action, err)
		a.status(ui.StatusMsg{Warning: err.Error()})
	}
}

// background runs fn unless another background operation is running
func (a *App) background(fn func() error) error {
	a.mu.Lock()
	if a.busy {
		a.mu.Unlock()
		return ErrBusy
	}
	a.busy = true
	a.mu.Unlock()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		defer func() {
			a.mu.Lock()
			a.busy = false
			a.mu.Unlock()
		}()
		if err := fn(); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("Warning: %v", err)
			a.status(ui.StatusMsg{Done: true, Warning: err.Error()})
		}
	}()
	return nil
}

// Close stops any recording and waits for background work
func (a *App) Close() error {
	if err := a.StopRecording(); err != nil {
		log.Printf("Warning: failed to stop recording: %v", err)
	}
	a.wg.Wait()
	return a.decoder.Close()
}

func (a *App) status(msg ui.StatusMsg) {
	if a.onStatus != nil {
		a.onStatus(msg)
	}
}
