// ABOUTME: Simple linear resampler for converting audio sample rates
// ABOUTME: Resamples whole decoded clips one channel at a time
package resample

import "github.com/Resonate-Protocol/scribe-go/pkg/audio"

// Resampler performs linear interpolation between two sample rates
type Resampler struct {
	inputRate  int
	outputRate int
	ratio      float64
}

// New creates a new resampler
func New(inputRate, outputRate int) *Resampler {
	return &Resampler{
		inputRate:  inputRate,
		outputRate: outputRate,
		ratio:      float64(inputRate) / float64(outputRate),
	}
}

// OutputFrames returns how many frames Resample produces for inputFrames
func (r *Resampler) OutputFrames(inputFrames int) int {
	if inputFrames == 0 {
		return 0
	}
	return int(float64(inputFrames) / r.ratio)
}

// Resample converts one channel of samples to the output rate.
// The last input sample is held for positions past the end.
func (r *Resampler) Resample(input []float32) []float32 {
	output := make([]float32, r.OutputFrames(len(input)))
	last := len(input) - 1

	for i := range output {
		pos := float64(i) * r.ratio
		idx := int(pos)
		if idx >= last {
			output[i] = input[last]
			continue
		}

		frac := float32(pos - float64(idx))
		output[i] = input[idx]*(1-frac) + input[idx+1]*frac
	}

	return output
}

// To returns d converted to sampleRate. The input is returned unchanged
// when the rates already match or sampleRate is not positive.
func To(d *audio.Decoded, sampleRate int) *audio.Decoded {
	if sampleRate <= 0 || d.SampleRate == sampleRate || d.SampleRate <= 0 {
		return d
	}

	r := New(d.SampleRate, sampleRate)
	out := &audio.Decoded{
		SampleRate: sampleRate,
		Channels:   make([][]float32, len(d.Channels)),
	}
	for ch, samples := range d.Channels {
		out.Channels[ch] = r.Resample(samples)
	}
	return out
}
