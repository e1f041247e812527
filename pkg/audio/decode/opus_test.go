// ABOUTME: Tests for Ogg Opus decoder
// ABOUTME: Tests OpusHead parsing and error reporting
package decode

import (
	"errors"
	"testing"
)

func TestOpusChannels(t *testing.T) {
	head := append([]byte("OggS....."), []byte("OpusHead\x01\x02\x38\x01")...)

	channels, err := opusChannels(head)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if channels != 2 {
		t.Errorf("expected 2 channels, got %d", channels)
	}
}

func TestOpusChannels_Errors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"no head", []byte("OggS")},
		{"truncated head", []byte("OggSOpusHead\x01")},
		{"zero channels", []byte("OggSOpusHead\x01\x00")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := opusChannels(tt.data); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestOpusDecode_Empty(t *testing.T) {
	_, err := NewOpus().Decode(nil)
	if !errors.Is(err, ErrEmpty) {
		t.Errorf("expected ErrEmpty, got %v", err)
	}
}
