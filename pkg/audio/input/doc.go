// ABOUTME: Audio capture package for recording from input devices
// ABOUTME: Provides Device, Stream and Recorder interfaces plus malgo, PortAudio and ffmpeg backends
// Package input provides microphone capture.
//
// A Device hands out a Stream once access is granted. A Stream records
// into a Recorder for one container format at a time. Recorders deliver
// encoded chunks on a channel that closes after the final flush.
//
// Backends: Malgo (default, records audio/wav), PortAudio (build with
// -tags portaudio, records audio/wav) and FFmpeg (records WebM and MP4
// containers through the ffmpeg binary).
//
// Example:
//
//	dev := input.NewMalgo()
//	stream, err := dev.Acquire(ctx, input.DefaultConstraints())
//	rec, err := stream.Record(audio.MimeWAV)
//	// ... later
//	rec.Stop()
//	for chunk := range rec.Data() { ... }
//	stream.Release()
package input
