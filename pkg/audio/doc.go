// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines Clip, Decoded and Format types plus sample conversion functions
// Package audio provides the fundamental types shared by the capture and
// normalization pipeline.
//
// This package defines:
//   - Clip: an immutable audio payload tagged with its container MIME type
//   - Decoded: raw per-channel float samples plus sample rate
//   - Format: a description of a PCM stream (codec, sample rate, channels, bit depth)
//
// It also provides the sample conversions used when moving between float
// samples and the canonical 16-bit PCM container:
//   - float32 ↔ int16 with asymmetric range mapping
//   - 24-bit packed bytes ↔ int32
//
// Example:
//
//	d := &audio.Decoded{
//	    SampleRate: 44100,
//	    Channels:   [][]float32{samples},
//	}
//
//	// Convert a float sample to canonical 16-bit PCM
//	s16 := audio.FloatToInt16(0.5)
package audio
