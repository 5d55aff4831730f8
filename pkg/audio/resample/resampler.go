// ABOUTME: Simple linear resampler for converting clip sample rates
// ABOUTME: Converts interleaved float32 PCM between sample rates using linear interpolation
package resample

import "github.com/Resonate-Protocol/clipdeck/pkg/audio"

// Resampler performs linear interpolation to convert between sample rates
type Resampler struct {
	inputRate  int
	outputRate int
	channels   int
	ratio      float64
	position   float64
}

// New creates a new resampler
func New(inputRate, outputRate, channels int) *Resampler {
	return &Resampler{
		inputRate:  inputRate,
		outputRate: outputRate,
		channels:   channels,
		ratio:      float64(inputRate) / float64(outputRate),
	}
}

// Resample converts input samples to the output rate.
// input: interleaved samples at inputRate
// output: interleaved samples at outputRate
// Returns the number of samples written to output.
func (r *Resampler) Resample(input []float32, output []float32) int {
	if len(input) == 0 {
		return 0
	}

	inputFrames := len(input) / r.channels
	outputFrames := len(output) / r.channels

	outIdx := 0
	for outIdx < outputFrames {
		inputIdx := int(r.position)
		if inputIdx >= inputFrames {
			break
		}

		frac := float32(r.position - float64(inputIdx))
		next := inputIdx + 1
		if next >= inputFrames {
			// Hold the last frame rather than reading past the input
			next = inputIdx
		}

		for ch := 0; ch < r.channels; ch++ {
			s1 := input[inputIdx*r.channels+ch]
			s2 := input[next*r.channels+ch]
			output[outIdx*r.channels+ch] = s1*(1-frac) + s2*frac
		}

		outIdx++
		r.position += r.ratio
	}

	// Carry the position over into the next chunk
	r.position -= float64(min(int(r.position), inputFrames))

	return outIdx * r.channels
}

// Reset resets the resampler state
func (r *Resampler) Reset() {
	r.position = 0
}

// OutputSamplesNeeded calculates how many output samples will be produced from input samples
func (r *Resampler) OutputSamplesNeeded(inputSamples int) int {
	inputFrames := inputSamples / r.channels
	outputFrames := int(float64(inputFrames) / r.ratio)
	return outputFrames * r.channels
}

// Convert resamples a whole clip to rate. The clip is returned unchanged
// when it is already at that rate.
func Convert(p *audio.PCM, rate int) *audio.PCM {
	if rate <= 0 || p.Format.SampleRate == rate || p.Format.SampleRate <= 0 || p.Format.Channels <= 0 {
		return p
	}

	r := New(p.Format.SampleRate, rate, p.Format.Channels)
	out := make([]float32, r.OutputSamplesNeeded(len(p.Samples))+p.Format.Channels)
	n := r.Resample(p.Samples, out)

	format := p.Format
	format.SampleRate = rate
	return &audio.PCM{Format: format, Samples: out[:n]}
}
