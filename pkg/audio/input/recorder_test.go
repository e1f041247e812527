// ABOUTME: Tests for the buffering WAV recorder
// ABOUTME: Tests flush layout, failure handling and idempotent stop
package input

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/Resonate-Protocol/scribe-go/pkg/audio/encode"
)

func drain(ch <-chan []byte) [][]byte {
	var chunks [][]byte
	for c := range ch {
		chunks = append(chunks, c)
	}
	return chunks
}

func TestPCMRecorder_StopFlushesWAV(t *testing.T) {
	closed := 0
	rec := newPCMRecorder(44100, 1, func() { closed++ })

	rec.write([]byte{0x01, 0x00, 0x02, 0x00})
	rec.write([]byte{0x03, 0x00})

	if err := rec.Stop(); err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	chunks := drain(rec.Data())

	if len(chunks) != 2 {
		t.Fatalf("expected header and one data chunk, got %d chunks", len(chunks))
	}
	if !bytes.Equal(chunks[0], encode.WAVHeader(44100, 1, 3)) {
		t.Error("first chunk is not the expected WAV header")
	}
	if !bytes.Equal(chunks[1], []byte{0x01, 0x00, 0x02, 0x00, 0x03, 0x00}) {
		t.Errorf("unexpected data chunk: %v", chunks[1])
	}
	if closed != 1 {
		t.Errorf("expected onClose once, got %d", closed)
	}
	if rec.Err() != nil {
		t.Errorf("expected no error, got %v", rec.Err())
	}
}

func TestPCMRecorder_DropsPartialFrame(t *testing.T) {
	rec := newPCMRecorder(8000, 2, nil)
	rec.write([]byte{1, 0, 2, 0, 3}) // one full stereo frame plus a stray byte

	rec.Stop()
	chunks := drain(rec.Data())

	var out []byte
	for _, c := range chunks {
		out = append(out, c...)
	}
	if len(out) != encode.WAVSize(1, 2) {
		t.Fatalf("expected %d bytes, got %d", encode.WAVSize(1, 2), len(out))
	}
	if got := binary.LittleEndian.Uint32(out[40:44]); got != 4 {
		t.Errorf("expected data size 4, got %d", got)
	}
}

func TestPCMRecorder_SplitsLargeFlush(t *testing.T) {
	rec := newPCMRecorder(44100, 1, nil)
	rec.write(make([]byte, flushChunkSize*2+10))

	rec.Stop()
	chunks := drain(rec.Data())

	if len(chunks) != 4 {
		t.Fatalf("expected header plus 3 data chunks, got %d", len(chunks))
	}
	if len(chunks[3]) != 10 {
		t.Errorf("expected final chunk of 10 bytes, got %d", len(chunks[3]))
	}
}

func TestPCMRecorder_StopIsIdempotent(t *testing.T) {
	closed := 0
	rec := newPCMRecorder(44100, 1, func() { closed++ })

	rec.Stop()
	rec.Stop()
	drain(rec.Data())

	if closed != 1 {
		t.Errorf("expected onClose once, got %d", closed)
	}
}

func TestPCMRecorder_Fail(t *testing.T) {
	rec := newPCMRecorder(44100, 1, nil)
	rec.write([]byte{1, 0})

	rec.fail(errDeviceStopped)
	chunks := drain(rec.Data())

	if len(chunks) != 0 {
		t.Errorf("expected no chunks after failure, got %d", len(chunks))
	}
	if !errors.Is(rec.Err(), errDeviceStopped) {
		t.Errorf("expected errDeviceStopped, got %v", rec.Err())
	}

	// Stop after failure must not panic on a closed channel
	if err := rec.Stop(); err != nil {
		t.Errorf("stop after failure returned %v", err)
	}
}

func TestPCMRecorder_WriteAfterStopIgnored(t *testing.T) {
	rec := newPCMRecorder(44100, 1, nil)
	rec.Stop()
	rec.write([]byte{1, 0})

	chunks := drain(rec.Data())
	if len(chunks) != 1 {
		t.Fatalf("expected header only, got %d chunks", len(chunks))
	}
	if !bytes.Equal(chunks[0], encode.WAVHeader(44100, 1, 0)) {
		t.Error("expected empty WAV header")
	}
}
