// ABOUTME: Audio encoder package for the canonical PCM container
// ABOUTME: Serializes decoded float samples to 16-bit RIFF/WAVE bytes
// Package encode serializes decoded audio into the canonical container.
//
// The output is a fixed 44-byte RIFF/WAVE header followed by interleaved
// little-endian 16-bit samples. Encoding is deterministic and cannot fail
// for a well-formed audio.Decoded.
//
// Example:
//
//	wav := encode.WAV(decoded)
//	// len(wav) == encode.WAVSize(decoded.Frames(), decoded.ChannelCount())
package encode
