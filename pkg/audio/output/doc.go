// ABOUTME: Audio output package for previewing clips
// ABOUTME: Provides Output interface, oto implementation and a Play helper
// Package output provides audio playback for previewing recordings.
//
// Example:
//
//	out := output.NewOto()
//	defer out.Close()
//	err := output.Play(ctx, out, decoded)
package output
