// ABOUTME: Audio output tests
// ABOUTME: Verifies Play interleaving, format adaptation and volume handling
package output

import (
	"context"
	"errors"
	"testing"

	"github.com/Resonate-Protocol/scribe-go/pkg/audio"
)

type fakeOutput struct {
	sampleRate int
	channels   int
	fixedRate  int
	fixedCh    int
	written    []float32
	writes     int
	drained    bool
}

func (f *fakeOutput) Open(sampleRate, channels int) error {
	f.sampleRate = sampleRate
	f.channels = channels
	return nil
}

func (f *fakeOutput) Write(samples []float32) error {
	f.written = append(f.written, samples...)
	f.writes++
	return nil
}

func (f *fakeOutput) Drain() error {
	f.drained = true
	return nil
}

func (f *fakeOutput) Close() error { return nil }

type fixedOutput struct{ fakeOutput }

func (f *fixedOutput) Format() (int, int) { return f.fixedRate, f.fixedCh }

func TestOtoImplementsOutput(t *testing.T) {
	var _ Output = (*Oto)(nil)
	var _ FixedFormat = (*Oto)(nil)
}

func TestPlay_Interleaves(t *testing.T) {
	out := &fakeOutput{}
	d := &audio.Decoded{
		SampleRate: 8000,
		Channels:   [][]float32{{0.1, 0.2}, {-0.1, -0.2}},
	}

	if err := Play(context.Background(), out, d); err != nil {
		t.Fatalf("play failed: %v", err)
	}

	if out.sampleRate != 8000 || out.channels != 2 {
		t.Errorf("opened with %dHz %dch, want 8000Hz 2ch", out.sampleRate, out.channels)
	}
	want := []float32{0.1, -0.1, 0.2, -0.2}
	if len(out.written) != len(want) {
		t.Fatalf("expected %d samples, got %d", len(want), len(out.written))
	}
	for i := range want {
		if out.written[i] != want[i] {
			t.Errorf("sample %d: got %f, want %f", i, out.written[i], want[i])
		}
	}
	if !out.drained {
		t.Error("expected output to be drained")
	}
}

func TestPlay_ChunksWrites(t *testing.T) {
	out := &fakeOutput{}
	d := audio.NewDecoded(48000, 1, writeFrames*2+1)

	if err := Play(context.Background(), out, d); err != nil {
		t.Fatalf("play failed: %v", err)
	}
	if out.writes != 3 {
		t.Errorf("expected 3 writes, got %d", out.writes)
	}
	if len(out.written) != writeFrames*2+1 {
		t.Errorf("expected %d samples, got %d", writeFrames*2+1, len(out.written))
	}
}

func TestPlay_AdaptsToFixedFormat(t *testing.T) {
	out := &fixedOutput{fakeOutput{fixedRate: 16000, fixedCh: 2}}
	d := audio.NewDecoded(8000, 1, 100)
	d.Channels[0][0] = 0.5

	if err := Play(context.Background(), out, d); err != nil {
		t.Fatalf("play failed: %v", err)
	}
	if out.sampleRate != 16000 || out.channels != 2 {
		t.Errorf("opened with %dHz %dch, want 16000Hz 2ch", out.sampleRate, out.channels)
	}
	if len(out.written) != 200*2 {
		t.Errorf("expected %d samples, got %d", 400, len(out.written))
	}
	if out.written[0] != 0.5 || out.written[1] != 0.5 {
		t.Errorf("expected mono duplicated to both channels, got %f %f", out.written[0], out.written[1])
	}
}

func TestPlay_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Play(ctx, &fakeOutput{}, audio.NewDecoded(8000, 1, 10))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestPlay_InvalidAudio(t *testing.T) {
	if err := Play(context.Background(), &fakeOutput{}, &audio.Decoded{}); err == nil {
		t.Error("expected error for invalid audio")
	}
}

func TestRemix_Downmix(t *testing.T) {
	d := &audio.Decoded{SampleRate: 8000, Channels: [][]float32{{0.5}, {0.1}}}
	out := remix(d, 1)

	if out.ChannelCount() != 1 {
		t.Fatalf("expected 1 channel, got %d", out.ChannelCount())
	}
	if got := out.Channels[0][0]; got < 0.29 || got > 0.31 {
		t.Errorf("expected average 0.3, got %f", got)
	}
}

func TestApplyVolume(t *testing.T) {
	tests := []struct {
		name   string
		volume int
		muted  bool
		in     float32
		want   float32
	}{
		{"full", 100, false, 0.5, 0.5},
		{"half", 50, false, 0.5, 0.25},
		{"muted", 100, true, 0.5, 0},
		{"zero", 0, false, 0.5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := applyVolume([]float32{tt.in}, tt.volume, tt.muted)
			if got[0] != tt.want {
				t.Errorf("applyVolume() = %f, want %f", got[0], tt.want)
			}
		})
	}
}

func TestOtoVolume(t *testing.T) {
	o := NewOto()

	o.SetVolume(150)
	if o.GetVolume() != 100 {
		t.Errorf("expected volume clamped to 100, got %d", o.GetVolume())
	}
	o.SetVolume(-5)
	if o.GetVolume() != 0 {
		t.Errorf("expected volume clamped to 0, got %d", o.GetVolume())
	}

	o.SetMuted(true)
	if !o.IsMuted() {
		t.Error("expected muted")
	}

	if err := o.Write([]float32{0}); err == nil {
		t.Error("expected error writing before open")
	}
}
