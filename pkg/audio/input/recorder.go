// ABOUTME: Buffering WAV recorder shared by callback-driven backends
// ABOUTME: Collects 16-bit PCM frames and emits a WAV header plus data on stop
package input

import (
	"errors"
	"sync"

	"github.com/Resonate-Protocol/scribe-go/pkg/audio/encode"
)

// flushChunkSize bounds the size of each data chunk emitted on stop
const flushChunkSize = 64 * 1024

// pcmRecorder buffers little-endian 16-bit PCM and emits a WAV file when
// stopped. The header needs the final frame count so nothing is emitted
// before Stop.
type pcmRecorder struct {
	sampleRate int
	channels   int

	mu      sync.Mutex
	pcm     []byte
	done    bool
	err     error
	data    chan []byte
	onClose func()
}

func newPCMRecorder(sampleRate, channels int, onClose func()) *pcmRecorder {
	return &pcmRecorder{
		sampleRate: sampleRate,
		channels:   channels,
		data:       make(chan []byte, 8),
		onClose:    onClose,
	}
}

// write appends captured PCM bytes. Safe to call from audio callbacks.
func (r *pcmRecorder) write(pcm []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done {
		return
	}
	r.pcm = append(r.pcm, pcm...)
}

// Data yields the header chunk followed by PCM data chunks
func (r *pcmRecorder) Data() <-chan []byte {
	return r.data
}

// Stop flushes the buffered recording and closes the data channel
func (r *pcmRecorder) Stop() error {
	r.mu.Lock()
	if r.done {
		r.mu.Unlock()
		return nil
	}
	r.done = true
	pcm := r.pcm
	r.pcm = nil
	r.mu.Unlock()

	if r.onClose != nil {
		r.onClose()
	}

	go func() {
		frameSize := 2 * r.channels
		frames := len(pcm) / frameSize
		pcm = pcm[:frames*frameSize]

		r.data <- encode.WAVHeader(r.sampleRate, r.channels, frames)
		for len(pcm) > 0 {
			n := min(len(pcm), flushChunkSize)
			r.data <- pcm[:n]
			pcm = pcm[n:]
		}
		close(r.data)
	}()
	return nil
}

// fail ends the recording without a flush
func (r *pcmRecorder) fail(err error) {
	r.mu.Lock()
	if r.done {
		r.mu.Unlock()
		return
	}
	r.done = true
	r.err = err
	r.pcm = nil
	r.mu.Unlock()

	if r.onClose != nil {
		r.onClose()
	}
	close(r.data)
}

// Err reports a capture failure
func (r *pcmRecorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// errDeviceStopped is reported when capture ends without a Stop request
var errDeviceStopped = errors.New("capture device stopped unexpectedly")
