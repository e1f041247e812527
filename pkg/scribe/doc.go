// ABOUTME: High-level capture and normalization API
// ABOUTME: Records from a device or ingests files and produces canonical WAV clips
// Package scribe turns microphone recordings and uploaded files into
// canonical 16-bit PCM WAV clips ready for a transcription service.
//
// A Session records from an input.Device, choosing the best container the
// device supports. When the recorded container is not WAV it is decoded and
// re-encoded by a Normalizer. Uploaded files take the same path through
// Normalizer.Ingest.
//
// Conversion failures are never fatal: the original clip is returned with
// Result.Err set so callers can warn the user.
//
// Example:
//
//	norm := scribe.NewNormalizer(nil)
//	session, err := scribe.NewSession(scribe.SessionConfig{
//		Device:     input.NewMalgo(),
//		Normalizer: norm,
//	})
//	err = session.Start(ctx)
//	// ... later
//	session.Stop()
//	result, err := session.Wait(ctx)
package scribe
