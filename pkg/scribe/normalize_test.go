// ABOUTME: Tests for the normalizer and file ingestion
// ABOUTME: Tests passthrough, conversion, fallback on decode failure and path ingestion
package scribe

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Resonate-Protocol/scribe-go/pkg/audio"
	"github.com/Resonate-Protocol/scribe-go/pkg/audio/decode"
	"github.com/Resonate-Protocol/scribe-go/pkg/audio/encode"
)

func TestIngest_WAVPassthrough(t *testing.T) {
	dec := &fakeDecoder{}
	n := NewNormalizer(dec)

	// Not even valid WAV: passthrough must not look at the bytes
	data := []byte("already canonical, do not touch")

	tests := []struct {
		name     string
		file     File
		wantName string
	}{
		{"by extension", File{Data: data, MimeType: "application/octet-stream", Name: "Meeting.WAV"}, "Meeting.WAV"},
		{"by mime", File{Data: data, MimeType: audio.MimeWAV, Name: "meeting"}, DefaultName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := n.Ingest(tt.file)

			if !bytes.Equal(result.Clip.Data, data) {
				t.Error("expected byte-identical passthrough")
			}
			if result.Converted {
				t.Error("expected no conversion")
			}
			if result.Err != nil {
				t.Errorf("expected no error, got %v", result.Err)
			}
			if result.Clip.Name != tt.wantName {
				t.Errorf("expected name %q, got %q", tt.wantName, result.Clip.Name)
			}
			if result.Clip.MimeType != audio.MimeWAV {
				t.Errorf("expected mime %q, got %q", audio.MimeWAV, result.Clip.MimeType)
			}
		})
	}

	if dec.calls != 0 {
		t.Errorf("expected decoder not to be called, got %d calls", dec.calls)
	}
}

func TestIngest_Converts(t *testing.T) {
	src := audio.NewDecoded(22050, 2, 2205)
	src.Channels[0][0] = 0.5
	dec := &fakeDecoder{decoded: src}
	metrics := &fakeMetrics{}
	n := NewNormalizer(dec)
	n.Metrics = metrics

	result := n.Ingest(File{Data: []byte("compressed"), MimeType: audio.MimeMPEG, Name: "voice.mp3"})

	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if !result.Converted {
		t.Error("expected conversion")
	}
	if !bytes.Equal(result.Clip.Data, encode.WAV(src)) {
		t.Error("converted bytes do not match encoder output")
	}
	if result.Clip.Name != "voice.wav" {
		t.Errorf("expected name voice.wav, got %q", result.Clip.Name)
	}
	if result.Clip.Duration != src.Duration() {
		t.Errorf("expected duration %v, got %v", src.Duration(), result.Clip.Duration)
	}
	if !result.Canonical() {
		t.Error("expected canonical result")
	}
	if len(metrics.conversions) != 1 || metrics.conversions[0] != "upload/converted" {
		t.Errorf("unexpected conversion metrics: %v", metrics.conversions)
	}
}

func TestIngest_RealWAVUnderForeignName(t *testing.T) {
	wav := encode.WAV(audio.NewDecoded(8000, 1, 800))
	n := NewNormalizer(decode.NewAuto())

	result := n.Ingest(File{Data: wav, MimeType: "audio/x-wav", Name: "clip.bin"})

	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if !bytes.Equal(result.Clip.Data, wav) {
		t.Error("expected re-encoded WAV to equal the input")
	}
}

func TestIngest_FallbackOnDecodeError(t *testing.T) {
	original := []byte("\x1a\x45\xdf\xa3 truncated webm")

	tests := []struct {
		name string
		dec  decode.Decoder
	}{
		{"injected decode error", &fakeDecoder{err: &decode.DecodeError{Codec: "webm", Err: errors.New("corrupt")}}},
		{"panicking decoder", &fakeDecoder{panics: true}},
		{"invalid decoded audio", &fakeDecoder{decoded: &audio.Decoded{}}},
		{"no ffmpeg fallback", decode.NewAuto()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metrics := &fakeMetrics{}
			n := NewNormalizer(tt.dec)
			n.Metrics = metrics

			result := n.Ingest(File{Data: original, MimeType: audio.MimeWebM, Name: "take.webm"})

			if !bytes.Equal(result.Clip.Data, original) {
				t.Error("expected original bytes on fallback")
			}
			if result.Clip.MimeType != audio.MimeWebM || result.Clip.Name != "take.webm" {
				t.Errorf("expected original tags, got %q %q", result.Clip.MimeType, result.Clip.Name)
			}
			if result.Converted {
				t.Error("expected Converted=false on fallback")
			}
			var decErr *decode.DecodeError
			if !errors.As(result.Err, &decErr) {
				t.Errorf("expected *decode.DecodeError warning, got %T: %v", result.Err, result.Err)
			}
			if len(metrics.conversions) != 1 || metrics.conversions[0] != "upload/fallback" {
				t.Errorf("unexpected conversion metrics: %v", metrics.conversions)
			}
		})
	}
}

func TestNormalize_Resamples(t *testing.T) {
	dec := &fakeDecoder{decoded: audio.NewDecoded(48000, 1, 48000)}
	n := NewNormalizer(dec)
	n.TargetSampleRate = 16000

	result := n.Normalize(audio.Clip{Data: []byte{1}, MimeType: audio.MimeWebM}, SourceRecording)

	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if want := encode.WAVSize(16000, 1); len(result.Clip.Data) != want {
		t.Errorf("expected %d bytes, got %d", want, len(result.Clip.Data))
	}
	if result.Clip.Name != DefaultName {
		t.Errorf("expected default name, got %q", result.Clip.Name)
	}
}

func TestNormalize_NilDecoder(t *testing.T) {
	n := &Normalizer{}
	result := n.Normalize(audio.Clip{Data: []byte{1, 2}, MimeType: audio.MimeMP4}, SourceUpload)

	if result.Err == nil {
		t.Fatal("expected warning for missing decoder")
	}
	if !bytes.Equal(result.Clip.Data, []byte{1, 2}) {
		t.Error("expected original bytes")
	}
}

func TestIngestPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "note.wav")
	data := encode.WAV(audio.NewDecoded(8000, 1, 80))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	n := NewNormalizer(&fakeDecoder{})
	result, err := n.IngestPath(path)
	if err != nil {
		t.Fatalf("ingest failed: %v", err)
	}
	if !bytes.Equal(result.Clip.Data, data) {
		t.Error("expected byte-identical passthrough")
	}
	if result.Clip.Name != "note.wav" {
		t.Errorf("expected name note.wav, got %q", result.Clip.Name)
	}

	if _, err := n.IngestPath(filepath.Join(dir, "missing.mp3")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestConvertedName(t *testing.T) {
	tests := map[string]string{
		"":                 DefaultName,
		"voice.mp3":        "voice.wav",
		"dir/take.two.m4a": "take.two.wav",
		"noext":            "noext.wav",
		".hidden":          DefaultName,
	}
	for in, want := range tests {
		if got := convertedName(in); got != want {
			t.Errorf("convertedName(%q) = %q, want %q", in, got, want)
		}
	}
}
