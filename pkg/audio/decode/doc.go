// ABOUTME: Audio decoder package for multiple container support
// ABOUTME: Provides Decoder interface and implementations for WAV, MP3, FLAC, Ogg Opus and ffmpeg
// Package decode turns encoded audio containers into raw float samples.
//
// Supports: WAV (PCM 8/16/24/32-bit, IEEE float, extensible), MP3, FLAC,
// Ogg Opus, and anything else the ffmpeg binary understands (WebM, MP4, AAC).
//
// All decoders implement the Decoder interface and return an *audio.Decoded
// with one float32 slice per channel. Decoding is all-or-nothing: any
// failure is reported as a *DecodeError and no partial audio is returned.
//
// Example:
//
//	decoder := decode.NewAuto(decode.WithFFmpeg(""))
//	decoded, err := decoder.Decode(data)
package decode
