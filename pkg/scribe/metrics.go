// ABOUTME: Metrics hooks for capture and conversion
// ABOUTME: Lets callers observe conversions, recordings and clip sizes
package scribe

import "time"

// Clip sources reported to Metrics
const (
	SourceRecording = "recording"
	SourceUpload    = "upload"
)

// Conversion statuses reported to Metrics
const (
	StatusPassthrough = "passthrough"
	StatusConverted   = "converted"
	StatusFallback    = "fallback"
)

// Metrics receives pipeline events. Implementations must be safe for
// concurrent use.
type Metrics interface {
	RecordConversion(source, status string)
	RecordRecording(mimeType string, d time.Duration)
	RecordClip(source string, size int)
}

type nopMetrics struct{}

func (nopMetrics) RecordConversion(string, string)       {}
func (nopMetrics) RecordRecording(string, time.Duration) {}
func (nopMetrics) RecordClip(string, int)                {}
