// ABOUTME: In-process fakes for capture tests
// ABOUTME: Provides a scriptable device, stream, recorder, decoder and metrics sink
package scribe

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Resonate-Protocol/scribe-go/pkg/audio"
	"github.com/Resonate-Protocol/scribe-go/pkg/audio/input"
)

type fakeDevice struct {
	supported  map[string]bool
	acquireErr error
	recordErr  error
	chunks     [][]byte // emitted by each recorder on Stop

	mu      sync.Mutex
	streams []*fakeStream
}

func newFakeDevice(supported ...string) *fakeDevice {
	d := &fakeDevice{supported: map[string]bool{}}
	for _, mime := range supported {
		d.supported[mime] = true
	}
	return d
}

func (d *fakeDevice) Supports(mimeType string) bool {
	return d.supported[mimeType]
}

func (d *fakeDevice) Acquire(ctx context.Context, c input.Constraints) (input.Stream, error) {
	if d.acquireErr != nil {
		return nil, d.acquireErr
	}
	s := &fakeStream{device: d, constraints: c}
	d.mu.Lock()
	d.streams = append(d.streams, s)
	d.mu.Unlock()
	return s, nil
}

func (d *fakeDevice) lastStream() *fakeStream {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.streams) == 0 {
		return nil
	}
	return d.streams[len(d.streams)-1]
}

type fakeStream struct {
	device      *fakeDevice
	constraints input.Constraints
	releases    atomic.Int32

	mu       sync.Mutex
	recorder *fakeRecorder
	mimeType string
}

func (s *fakeStream) Record(mimeType string) (input.Recorder, error) {
	if s.device.recordErr != nil {
		return nil, s.device.recordErr
	}
	r := &fakeRecorder{
		data:   make(chan []byte),
		chunks: s.device.chunks,
	}
	s.mu.Lock()
	s.recorder = r
	s.mimeType = mimeType
	s.mu.Unlock()
	return r, nil
}

func (s *fakeStream) Release() error {
	s.releases.Add(1)
	return nil
}

func (s *fakeStream) rec() *fakeRecorder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recorder
}

type fakeRecorder struct {
	data   chan []byte
	chunks [][]byte
	once   sync.Once

	mu  sync.Mutex
	err error
}

func (r *fakeRecorder) Data() <-chan []byte {
	return r.data
}

func (r *fakeRecorder) Stop() error {
	r.once.Do(func() {
		go func() {
			for _, c := range r.chunks {
				r.data <- c
			}
			close(r.data)
		}()
	})
	return nil
}

// fail simulates the device disappearing mid-recording
func (r *fakeRecorder) fail(err error) {
	r.once.Do(func() {
		r.mu.Lock()
		r.err = err
		r.mu.Unlock()
		close(r.data)
	})
}

func (r *fakeRecorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

type fakeDecoder struct {
	decoded *audio.Decoded
	err     error
	panics  bool
	calls   int
}

func (d *fakeDecoder) Decode(data []byte) (*audio.Decoded, error) {
	d.calls++
	if d.panics {
		panic("corrupt frame")
	}
	if d.err != nil {
		return nil, d.err
	}
	return d.decoded, nil
}

func (d *fakeDecoder) Close() error { return nil }

type fakeMetrics struct {
	mu          sync.Mutex
	conversions []string
	recordings  int
	clipBytes   int
}

func (m *fakeMetrics) RecordConversion(source, status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conversions = append(m.conversions, source+"/"+status)
}

func (m *fakeMetrics) RecordRecording(mimeType string, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordings++
}

func (m *fakeMetrics) RecordClip(source string, size int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clipBytes += size
}
