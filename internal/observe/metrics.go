// ABOUTME: OpenTelemetry instruments for the capture and transcription pipeline
// ABOUTME: Implements scribe.Metrics on top of an OTel meter provider
package observe

import (
	"context"
	"time"

	"github.com/Resonate-Protocol/scribe-go/pkg/scribe"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/Resonate-Protocol/scribe-go"

// Upload statuses
const (
	UploadOK    = "ok"
	UploadError = "error"
)

// Metrics holds the pipeline instruments.
type Metrics struct {
	Conversions       metric.Int64Counter
	Fallbacks         metric.Int64Counter
	Recordings        metric.Int64Counter
	RecordingDuration metric.Float64Histogram
	ClipBytes         metric.Int64Histogram
	Uploads           metric.Int64Counter
	UploadDuration    metric.Float64Histogram
}

// NewMetrics creates every instrument from mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	met := &Metrics{}
	var err error

	if met.Conversions, err = m.Int64Counter("scribe.conversions",
		metric.WithDescription("Clips passed through the normaliser by source and status."),
	); err != nil {
		return nil, err
	}
	if met.Fallbacks, err = m.Int64Counter("scribe.conversion.fallbacks",
		metric.WithDescription("Conversions that failed and kept the original clip."),
	); err != nil {
		return nil, err
	}
	if met.Recordings, err = m.Int64Counter("scribe.recordings",
		metric.WithDescription("Finished recordings by captured MIME type."),
	); err != nil {
		return nil, err
	}
	if met.RecordingDuration, err = m.Float64Histogram("scribe.recording.duration",
		metric.WithDescription("Wall-clock length of finished recordings."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}
	if met.ClipBytes, err = m.Int64Histogram("scribe.clip.bytes",
		metric.WithDescription("Size of clips handed to the normaliser."),
		metric.WithUnit("By"),
	); err != nil {
		return nil, err
	}
	if met.Uploads, err = m.Int64Counter("scribe.uploads",
		metric.WithDescription("Transcription uploads by status."),
	); err != nil {
		return nil, err
	}
	if met.UploadDuration, err = m.Float64Histogram("scribe.upload.duration",
		metric.WithDescription("Transcription request latency."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// RecordConversion counts one normalisation outcome.
func (m *Metrics) RecordConversion(source, status string) {
	ctx := context.Background()
	m.Conversions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("source", source),
		attribute.String("status", status),
	))
	if status == scribe.StatusFallback {
		m.Fallbacks.Add(ctx, 1, metric.WithAttributes(attribute.String("source", source)))
	}
}

// RecordRecording counts a finished recording and its length.
func (m *Metrics) RecordRecording(mimeType string, d time.Duration) {
	ctx := context.Background()
	attrs := metric.WithAttributes(attribute.String("mime_type", mimeType))
	m.Recordings.Add(ctx, 1, attrs)
	m.RecordingDuration.Record(ctx, d.Seconds(), attrs)
}

func (m *Metrics) RecordClip(source string, size int) {
	m.ClipBytes.Record(context.Background(), int64(size),
		metric.WithAttributes(attribute.String("source", source)))
}

// RecordUpload counts a transcription request and its latency.
func (m *Metrics) RecordUpload(ctx context.Context, status string, d time.Duration) {
	attrs := metric.WithAttributes(attribute.String("status", status))
	m.Uploads.Add(ctx, 1, attrs)
	m.UploadDuration.Record(ctx, d.Seconds(), attrs)
}

var _ scribe.Metrics = (*Metrics)(nil)
