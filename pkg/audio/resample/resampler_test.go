// ABOUTME: Tests for audio resampler
// ABOUTME: Tests linear interpolation resampling between sample rates
package resample

import (
	"testing"

	"github.com/Resonate-Protocol/clipdeck/pkg/audio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	r := New(44100, 48000, 2)

	require.NotNil(t, r)
	assert.Equal(t, 44100, r.inputRate)
	assert.Equal(t, 48000, r.outputRate)
	assert.Equal(t, 2, r.channels)
}

func TestResampleIdentity(t *testing.T) {
	r := New(48000, 48000, 2)
	input := []float32{0.1, 0.2, 0.3, 0.4, 0.5, 0.6}
	output := make([]float32, len(input))

	n := r.Resample(input, output)
	assert.Equal(t, len(input), n)
	assert.Equal(t, input, output)
}

func TestResampleUpsampleInterpolates(t *testing.T) {
	r := New(1, 2, 1)
	output := make([]float32, 8)

	n := r.Resample([]float32{0, 1}, output)
	require.Equal(t, 4, n)
	assert.InDeltaSlice(t, []float32{0, 0.5, 1, 1}, output[:n], 1e-6)
}

func TestResampleDownsample(t *testing.T) {
	r := New(48000, 24000, 1)
	input := make([]float32, 100)
	for i := range input {
		input[i] = float32(i)
	}
	output := make([]float32, 100)

	n := r.Resample(input, output)
	assert.Equal(t, 50, n)
	assert.Equal(t, float32(2), output[1])
}

func TestResampleEmpty(t *testing.T) {
	r := New(44100, 48000, 2)
	assert.Equal(t, 0, r.Resample(nil, make([]float32, 10)))
}

func TestSamplesNeeded(t *testing.T) {
	r := New(24000, 48000, 2)
	assert.Equal(t, 400, r.OutputSamplesNeeded(200))

	r.position = 0.5
	r.Reset()
	assert.Equal(t, 0.0, r.position)
}

func TestConvert(t *testing.T) {
	clip := &audio.PCM{
		Format:  audio.Format{SampleRate: 22050, Channels: 2},
		Samples: make([]float32, 2*22050),
	}

	out := Convert(clip, 44100)
	assert.Equal(t, 44100, out.Format.SampleRate)
	assert.Equal(t, 2, out.Format.Channels)
	assert.InDelta(t, 44100, out.Frames(), 2)

	assert.Same(t, clip, Convert(clip, 22050))
	assert.Same(t, clip, Convert(clip, 0))
}
