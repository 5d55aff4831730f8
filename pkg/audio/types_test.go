// ABOUTME: Tests for audio types
// ABOUTME: Tests sample conversions, clip durations and channel remixing
package audio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSampleInt16Conversions(t *testing.T) {
	tests := []struct {
		name  string
		input int16
		float float32
	}{
		{"zero", 0, 0},
		{"min", -32768, -1},
		{"half", 16384, 0.5},
		{"negative half", -16384, -0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.float, SampleFromInt16(tt.input))
			assert.Equal(t, tt.input, SampleToInt16(tt.float))
		})
	}
}

func TestSampleToInt16Clips(t *testing.T) {
	assert.Equal(t, int16(32767), SampleToInt16(1.0))
	assert.Equal(t, int16(32767), SampleToInt16(4.0))
	assert.Equal(t, int16(-32768), SampleToInt16(-4.0))
}

func TestRoundTrip16Bit(t *testing.T) {
	for _, original := range []int16{0, 100, -100, 1000, -1000, 32767, -32768} {
		if got := SampleToInt16(SampleFromInt16(original)); got != original {
			t.Errorf("round-trip failed: %d -> %d", original, got)
		}
	}
}

func TestSampleFromInt(t *testing.T) {
	tests := []struct {
		name     string
		sample   int
		bitDepth int
		expected float32
	}{
		{"8-bit", -64, 8, -0.5},
		{"16-bit", 16384, 16, 0.5},
		{"24-bit", -4194304, 24, -0.5},
		{"32-bit", 1073741824, 32, 0.5},
		{"20-bit", 262144, 20, 0.5},
		{"unknown depth", 16384, 0, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SampleFromInt(tt.sample, tt.bitDepth))
		})
	}
}

func TestSample24BitPacking(t *testing.T) {
	tests := []struct {
		name   string
		sample int32
		packed [3]byte
	}{
		{"zero", 0, [3]byte{0, 0, 0}},
		{"positive", 0x123456, [3]byte{0x56, 0x34, 0x12}},
		{"negative", -256, [3]byte{0x00, 0xFF, 0xFF}},
		{"max positive", Max24Bit, [3]byte{0xFF, 0xFF, 0x7F}},
		{"max negative", Min24Bit, [3]byte{0x00, 0x00, 0x80}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.packed, SampleTo24Bit(tt.sample))
			assert.Equal(t, tt.sample, SampleFrom24Bit(tt.packed))
		})
	}
}

func TestPCMDuration(t *testing.T) {
	pcm := &PCM{
		Format:  Format{SampleRate: 1000, Channels: 2},
		Samples: make([]float32, 2*1500),
	}

	assert.Equal(t, 1500, pcm.Frames())
	assert.Equal(t, uint64(1500), pcm.DurationMs())
	assert.Equal(t, 1500*time.Millisecond, pcm.Duration())

	empty := &PCM{}
	assert.Equal(t, 0, empty.Frames())
	assert.Equal(t, uint64(0), empty.DurationMs())
	assert.Equal(t, time.Duration(0), empty.Duration())
}

func TestRemix(t *testing.T) {
	stereo := &PCM{
		Format:  Format{SampleRate: 8000, Channels: 2},
		Samples: []float32{0.2, 0.4, -1, 1},
	}

	mono := stereo.Remix(1)
	assert.Equal(t, 1, mono.Format.Channels)
	assert.InDeltaSlice(t, []float32{0.3, 0}, mono.Samples, 1e-6)

	back := mono.Remix(2)
	assert.InDeltaSlice(t, []float32{0.3, 0.3, 0, 0}, back.Samples, 1e-6)

	quad := stereo.Remix(4)
	assert.Equal(t, []float32{0.2, 0.4, 0.2, 0.4, -1, 1, -1, 1}, quad.Samples)

	assert.Same(t, stereo, stereo.Remix(2))
	assert.Same(t, stereo, stereo.Remix(0))
}
