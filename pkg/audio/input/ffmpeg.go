// ABOUTME: ffmpeg-based audio capture implementation
// ABOUTME: Records compressed containers by streaming ffmpeg's stdout
package input

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os/exec"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/Resonate-Protocol/scribe-go/pkg/audio"
)

// readChunkSize is the size of each chunk read from ffmpeg
const readChunkSize = 16 * 1024

// stopTimeout is how long Stop waits for ffmpeg to finalize before killing it
const stopTimeout = 5 * time.Second

// FFmpeg captures through the ffmpeg binary and encodes WebM or MP4
type FFmpeg struct {
	// Path to the ffmpeg binary; empty looks it up on PATH
	Path string

	// InputFormat is the ffmpeg demuxer used for capture (pulse, avfoundation, dshow)
	InputFormat string

	// InputDevice names the device for InputFormat
	InputDevice string
}

// NewFFmpeg creates an ffmpeg capture device with the platform default input
func NewFFmpeg(path string) *FFmpeg {
	format, device := defaultInput(runtime.GOOS)
	return &FFmpeg{
		Path:        path,
		InputFormat: format,
		InputDevice: device,
	}
}

func defaultInput(goos string) (string, string) {
	switch goos {
	case "darwin":
		return "avfoundation", ":0"
	case "windows":
		return "dshow", "audio=default"
	default:
		return "pulse", "default"
	}
}

func (f *FFmpeg) binary() string {
	if f.Path != "" {
		return f.Path
	}
	return "ffmpeg"
}

// Supports reports whether ffmpeg is installed and mimeType is a container
// this backend encodes. It never records audio/wav.
func (f *FFmpeg) Supports(mimeType string) bool {
	if _, err := encodeArgs(mimeType); err != nil {
		return false
	}
	_, err := exec.LookPath(f.binary())
	return err == nil
}

// Acquire checks for ffmpeg. Capture starts per recording since ffmpeg
// owns the device for the lifetime of its process.
func (f *FFmpeg) Acquire(ctx context.Context, c Constraints) (Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := exec.LookPath(f.binary())
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found: %w", err)
	}
	if c.EchoCancellation || c.NoiseSuppression {
		log.Printf("Warning: ffmpeg captures raw audio, ignoring echo cancellation and noise suppression")
	}
	return &ffmpegStream{
		path:        path,
		inputFormat: f.InputFormat,
		inputDevice: f.InputDevice,
		constraints: c,
	}, nil
}

// encodeArgs returns the ffmpeg output arguments for a container
func encodeArgs(mimeType string) ([]string, error) {
	switch mimeType {
	case audio.MimeWebMPCM:
		// WebM does not allow PCM, so use its Matroska parent
		return []string{"-c:a", "pcm_s16le", "-f", "matroska"}, nil
	case audio.MimeWebM:
		return []string{"-c:a", "libopus", "-f", "webm"}, nil
	case audio.MimeMP4:
		return []string{"-c:a", "aac", "-movflags", "frag_keyframe+empty_moov", "-f", "mp4"}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, mimeType)
	}
}

// captureArgs builds the full ffmpeg command line for one recording
func captureArgs(inputFormat, inputDevice string, c Constraints, mimeType string) ([]string, error) {
	out, err := encodeArgs(mimeType)
	if err != nil {
		return nil, err
	}
	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-f", inputFormat,
		"-i", inputDevice,
		"-ac", strconv.Itoa(c.ChannelCount),
		"-ar", strconv.Itoa(c.SampleRate),
	}
	args = append(args, out...)
	return append(args, "-"), nil
}

type ffmpegStream struct {
	path        string
	inputFormat string
	inputDevice string
	constraints Constraints

	mu       sync.Mutex
	rec      *ffmpegRecorder
	released bool
}

// Record starts an ffmpeg process encoding the requested container
func (s *ffmpegStream) Record(mimeType string) (Recorder, error) {
	args, err := captureArgs(s.inputFormat, s.inputDevice, s.constraints, mimeType)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return nil, ErrReleased
	}
	if s.rec != nil && !s.rec.finished() {
		return nil, fmt.Errorf("recorder already active")
	}

	rec, err := startFFmpegRecorder(exec.Command(s.path, args...))
	if err != nil {
		return nil, err
	}
	s.rec = rec
	log.Printf("Recording via ffmpeg: %s %s (%s)", s.inputFormat, s.inputDevice, mimeType)
	return rec, nil
}

// Release kills any active recording
func (s *ffmpegStream) Release() error {
	s.mu.Lock()
	if s.released {
		s.mu.Unlock()
		return nil
	}
	s.released = true
	rec := s.rec
	s.mu.Unlock()

	// A stopping recorder is left to finalize its container
	if rec != nil && !rec.finished() && !rec.isStopping() {
		rec.kill(ErrReleased)
	}
	return nil
}

type ffmpegRecorder struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser
	data  chan []byte
	done  chan struct{}

	mu       sync.Mutex
	stopping bool
	err      error
}

func startFFmpegRecorder(cmd *exec.Cmd) (*ffmpegRecorder, error) {
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to get ffmpeg stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to get ffmpeg stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	r := &ffmpegRecorder{
		cmd:   cmd,
		stdin: stdin,
		data:  make(chan []byte, 16),
		done:  make(chan struct{}),
	}
	go r.pump(stdout)
	return r, nil
}

// pump forwards stdout chunks until ffmpeg exits
func (r *ffmpegRecorder) pump(stdout io.Reader) {
	defer close(r.done)
	defer close(r.data)

	for {
		buf := make([]byte, readChunkSize)
		n, err := stdout.Read(buf)
		if n > 0 {
			r.data <- buf[:n]
		}
		if err != nil {
			break
		}
	}

	waitErr := r.cmd.Wait()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return
	}
	if !r.stopping {
		if waitErr == nil {
			waitErr = errDeviceStopped
		}
		r.err = fmt.Errorf("ffmpeg capture ended: %w", waitErr)
	}
}

// Data yields encoded container chunks
func (r *ffmpegRecorder) Data() <-chan []byte {
	return r.data
}

// Stop asks ffmpeg to finish the container, killing it if it does not exit
func (r *ffmpegRecorder) Stop() error {
	r.mu.Lock()
	if r.stopping {
		r.mu.Unlock()
		return nil
	}
	r.stopping = true
	r.mu.Unlock()

	// ffmpeg finalizes and exits when it reads 'q' on stdin
	if _, err := io.WriteString(r.stdin, "q"); err != nil && !errors.Is(err, io.ErrClosedPipe) {
		log.Printf("Warning: failed to signal ffmpeg: %v", err)
	}
	r.stdin.Close()

	go func() {
		select {
		case <-r.done:
		case <-time.After(stopTimeout):
			log.Printf("Warning: ffmpeg did not exit after stop, killing")
			r.kill(nil)
		}
	}()
	return nil
}

func (r *ffmpegRecorder) kill(err error) {
	r.mu.Lock()
	r.stopping = true
	if err != nil && r.err == nil {
		r.err = err
	}
	r.mu.Unlock()

	if r.cmd.Process != nil {
		r.cmd.Process.Kill()
	}
}

func (r *ffmpegRecorder) isStopping() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stopping
}

func (r *ffmpegRecorder) finished() bool {
	select {
	case <-r.done:
		return true
	default:
		return false
	}
}

// Err reports why the recording ended early
func (r *ffmpegRecorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}
