// ABOUTME: Unit tests for WAV encoder
// ABOUTME: Tests header layout, sizes, interleaving and boundary scaling
package encode

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/Resonate-Protocol/scribe-go/pkg/audio"
)

func TestWAVSize(t *testing.T) {
	tests := []struct {
		name     string
		frames   int
		channels int
		want     int
	}{
		{"empty mono", 0, 1, 44},
		{"one second mono", 44100, 1, 44 + 88200},
		{"stereo", 10, 2, 44 + 40},
		{"six channels", 3, 6, 44 + 36},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WAVSize(tt.frames, tt.channels); got != tt.want {
				t.Errorf("WAVSize() = %d, want %d", got, tt.want)
			}

			out := WAV(audio.NewDecoded(48000, tt.channels, tt.frames))
			if len(out) != tt.want {
				t.Errorf("len(WAV()) = %d, want %d", len(out), tt.want)
			}
		})
	}
}

func TestWAVHeaderFields(t *testing.T) {
	d := audio.NewDecoded(22050, 2, 100)
	out := WAV(d)

	checks := []struct {
		name string
		got  uint32
		want uint32
	}{
		{"riff size", binary.LittleEndian.Uint32(out[4:8]), uint32(len(out) - 8)},
		{"fmt size", binary.LittleEndian.Uint32(out[16:20]), 16},
		{"format tag", uint32(binary.LittleEndian.Uint16(out[20:22])), 1},
		{"channels", uint32(binary.LittleEndian.Uint16(out[22:24])), 2},
		{"sample rate", binary.LittleEndian.Uint32(out[24:28]), 22050},
		{"byte rate", binary.LittleEndian.Uint32(out[28:32]), 22050 * 2 * 2},
		{"block align", uint32(binary.LittleEndian.Uint16(out[32:34])), 4},
		{"bits per sample", uint32(binary.LittleEndian.Uint16(out[34:36])), 16},
		{"data size", binary.LittleEndian.Uint32(out[40:44]), 400},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s: got %d, want %d", c.name, c.got, c.want)
		}
	}

	for _, magic := range []struct {
		off  int
		text string
	}{{0, "RIFF"}, {8, "WAVE"}, {12, "fmt "}, {36, "data"}} {
		if got := string(out[magic.off : magic.off+4]); got != magic.text {
			t.Errorf("magic at %d: got %q, want %q", magic.off, got, magic.text)
		}
	}

	if !bytes.Equal(out[:HeaderSize], WAVHeader(22050, 2, 100)) {
		t.Error("WAVHeader() does not match header written by WAV()")
	}
}

func TestWAVBoundaryScaling(t *testing.T) {
	d := &audio.Decoded{
		SampleRate: 8000,
		Channels:   [][]float32{{1.0, -1.0, 0, 2.0, -3.0}},
	}
	out := WAV(d)

	want := []int16{32767, -32768, 0, 32767, -32768}
	for i, w := range want {
		got := int16(binary.LittleEndian.Uint16(out[HeaderSize+i*2:]))
		if got != w {
			t.Errorf("sample %d: got %d, want %d", i, got, w)
		}
	}
}

func TestWAVInterleavesChannels(t *testing.T) {
	d := &audio.Decoded{
		SampleRate: 8000,
		Channels: [][]float32{
			{0.5, -0.5},
			{0.25, -0.25},
		},
	}
	out := WAV(d)

	want := []int16{16383, 8191, -16384, -8192}
	for i, w := range want {
		got := int16(binary.LittleEndian.Uint16(out[HeaderSize+i*2:]))
		if got != w {
			t.Errorf("sample %d: got %d, want %d", i, got, w)
		}
	}
}

func TestWAVSilence(t *testing.T) {
	out := WAV(audio.NewDecoded(44100, 1, 88200))

	if len(out) != 44+88200*2 {
		t.Fatalf("expected %d bytes, got %d", 44+88200*2, len(out))
	}
	for i, b := range out[HeaderSize:] {
		if b != 0 {
			t.Fatalf("data byte %d is %d, want 0", i, b)
		}
	}
}

func TestWAVDeterministic(t *testing.T) {
	d := &audio.Decoded{SampleRate: 16000, Channels: [][]float32{{0.1, 0.2, -0.3}}}
	if !bytes.Equal(WAV(d), WAV(d)) {
		t.Error("WAV() produced different output for the same input")
	}
}

func TestPCM16(t *testing.T) {
	out := PCM16([]float32{1.0, -1.0})
	if len(out) != 4 {
		t.Fatalf("expected 4 bytes, got %d", len(out))
	}
	if got := int16(binary.LittleEndian.Uint16(out[0:])); got != 32767 {
		t.Errorf("first sample: got %d, want 32767", got)
	}
	if got := int16(binary.LittleEndian.Uint16(out[2:])); got != -32768 {
		t.Errorf("second sample: got %d, want -32768", got)
	}
}
