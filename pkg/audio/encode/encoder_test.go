// ABOUTME: Tests for the clip encoders
// ABOUTME: Tests tone generation, extension selection and decoding of written files
package encode

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/Resonate-Protocol/clipdeck/pkg/audio"
	"github.com/Resonate-Protocol/clipdeck/pkg/audio/decode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTone(t *testing.T) {
	tone := Tone(1000, 8000, 2, 250*time.Millisecond, 0.5)

	assert.Equal(t, 2000, tone.Frames())
	assert.Equal(t, uint64(250), tone.DurationMs())
	assert.Equal(t, tone.Samples[2], tone.Samples[3], "channels carry the same signal")
	// quarter period of 1kHz at 8kHz is two frames
	assert.InDelta(t, 0.5, tone.Samples[2*2], 1e-5)
}

func TestForPath(t *testing.T) {
	enc, err := ForPath("clip.WAV")
	require.NoError(t, err)
	assert.Equal(t, WAV{BitDepth: 16}, enc)

	enc, err = ForPath("clip.aif")
	require.NoError(t, err)
	assert.Equal(t, AIFF{BitDepth: 16}, enc)

	_, err = ForPath("clip.mp3")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestWriteFileDecodes(t *testing.T) {
	tone := Tone(440, 8000, 1, 100*time.Millisecond, 0.25)

	for _, name := range []string{"tone.wav", "tone.aiff"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, WriteFile(path, tone))

			pcm, err := decode.DefaultRegistry().DecodeFile(path)
			require.NoError(t, err)
			assert.Equal(t, 8000, pcm.Format.SampleRate)
			assert.Equal(t, 1, pcm.Format.Channels)
			assert.Equal(t, tone.Frames(), pcm.Frames())
			assert.InDeltaSlice(t, tone.Samples[:16], pcm.Samples[:16], 1e-3)
		})
	}
}

func TestIntBufferRejects(t *testing.T) {
	_, err := intBuffer(&audio.PCM{Format: audio.Format{SampleRate: 8000, Channels: 1}}, 8)
	assert.Error(t, err)

	_, err = intBuffer(&audio.PCM{}, 16)
	assert.Error(t, err)
}

func TestQuantize24(t *testing.T) {
	assert.Equal(t, audio.Max24Bit, quantize24(2))
	assert.Equal(t, audio.Min24Bit, quantize24(-2))
	assert.Equal(t, 4194304, quantize24(0.5))
}
