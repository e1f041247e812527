// ABOUTME: Audio resampling package using linear interpolation
// ABOUTME: Converts decoded audio between sample rates
// Package resample provides audio sample rate conversion.
//
// Uses linear interpolation. Handles both upsampling and downsampling.
//
// Example:
//
//	out := resample.To(decoded, 16000)
package resample
