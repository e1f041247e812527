// ABOUTME: Decode and re-encode pipeline for non-canonical clips
// ABOUTME: Converts clips to WAV and falls back to the original on failure
package scribe

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/Resonate-Protocol/scribe-go/pkg/audio"
	"github.com/Resonate-Protocol/scribe-go/pkg/audio/decode"
	"github.com/Resonate-Protocol/scribe-go/pkg/audio/encode"
	"github.com/Resonate-Protocol/scribe-go/pkg/audio/resample"
)

// DefaultName is the file name given to converted clips without a name
const DefaultName = "audio" + audio.CanonicalExt

// Normalizer converts clips into the canonical WAV container
type Normalizer struct {
	// Decoder turns any supported container into raw samples
	Decoder decode.Decoder

	// TargetSampleRate resamples converted audio when positive.
	// Zero keeps the source rate.
	TargetSampleRate int

	// Metrics receives conversion events (optional)
	Metrics Metrics
}

// NewNormalizer creates a normalizer. A nil decoder sniffs containers and
// falls back to ffmpeg for WebM and MP4.
func NewNormalizer(dec decode.Decoder) *Normalizer {
	if dec == nil {
		dec = decode.NewAuto(decode.WithFFmpeg(""))
	}
	return &Normalizer{
		Decoder: dec,
		Metrics: nopMetrics{},
	}
}

// Result is the outcome of normalizing a clip
type Result struct {
	// Clip is the artifact to submit: canonical WAV when Converted or
	// passed through, otherwise the original bytes
	Clip audio.Clip

	// Converted is true when the clip was decoded and re-encoded
	Converted bool

	// Err is a non-fatal conversion failure. Clip holds the original input.
	Err error
}

// Canonical reports whether the result clip is WAV
func (r Result) Canonical() bool {
	return r.Clip.Canonical()
}

// Normalize returns clip in the canonical container. Canonical clips pass
// through unmodified. On any decode failure the original clip is returned
// and the failure is reported in Result.Err.
func (n *Normalizer) Normalize(clip audio.Clip, source string) Result {
	metrics := n.metrics()

	if clip.Canonical() {
		out := clip
		out.MimeType = audio.MimeWAV
		out.Name = canonicalName(clip.Name)
		metrics.RecordConversion(source, StatusPassthrough)
		metrics.RecordClip(source, len(out.Data))
		return Result{Clip: out}
	}

	wav, decoded, err := n.convert(clip.Data)
	if err != nil {
		log.Printf("Warning: %s conversion to WAV failed, using original %s bytes: %v", source, mimeOrUnknown(clip.MimeType), err)
		metrics.RecordConversion(source, StatusFallback)
		metrics.RecordClip(source, len(clip.Data))
		return Result{Clip: clip, Err: err}
	}

	out := audio.Clip{
		Data:     wav,
		MimeType: audio.MimeWAV,
		Name:     convertedName(clip.Name),
		Duration: decoded.Duration(),
	}
	log.Printf("Converted %s from %s to WAV: %dHz, %d channels, %v",
		source, mimeOrUnknown(clip.MimeType), decoded.SampleRate, decoded.ChannelCount(), out.Duration)

	metrics.RecordConversion(source, StatusConverted)
	metrics.RecordClip(source, len(out.Data))
	return Result{Clip: out, Converted: true}
}

// convert decodes and re-encodes data. Decoder panics are reported as
// decode errors so a bad payload cannot take down the caller.
func (n *Normalizer) convert(data []byte) (wav []byte, decoded *audio.Decoded, err error) {
	defer func() {
		if r := recover(); r != nil {
			wav, decoded = nil, nil
			err = &decode.DecodeError{Err: fmt.Errorf("decoder panic: %v", r)}
		}
	}()

	if n.Decoder == nil {
		return nil, nil, &decode.DecodeError{Err: fmt.Errorf("no decoder configured")}
	}

	decoded, err = n.Decoder.Decode(data)
	if err != nil {
		return nil, nil, err
	}
	if err := decoded.Validate(); err != nil {
		return nil, nil, &decode.DecodeError{Err: err}
	}

	decoded = resample.To(decoded, n.TargetSampleRate)
	return encode.WAV(decoded), decoded, nil
}

func (n *Normalizer) metrics() Metrics {
	if n.Metrics == nil {
		return nopMetrics{}
	}
	return n.Metrics
}

// canonicalName keeps names that already carry the WAV extension
func canonicalName(name string) string {
	if strings.HasSuffix(strings.ToLower(name), audio.CanonicalExt) {
		return name
	}
	return DefaultName
}

// convertedName swaps the extension of name for .wav
func convertedName(name string) string {
	base := filepath.Base(name)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "" || stem == "" || stem == "." {
		return DefaultName
	}
	return stem + audio.CanonicalExt
}

func mimeOrUnknown(mime string) string {
	if mime == "" {
		return "unknown container"
	}
	return mime
}
