// ABOUTME: Sine tone generator
// ABOUTME: Builds float32 clips for tests and demos
package encode

import (
	"math"
	"time"

	"github.com/Resonate-Protocol/clipdeck/pkg/audio"
)

// Tone returns a sine wave at freq Hz, identical on every channel
func Tone(freq float64, sampleRate, channels int, d time.Duration, amplitude float32) *audio.PCM {
	frames := int(d * time.Duration(sampleRate) / time.Second)
	samples := make([]float32, frames*channels)

	for f := 0; f < frames; f++ {
		v := amplitude * float32(math.Sin(2*math.Pi*freq*float64(f)/float64(sampleRate)))
		for ch := 0; ch < channels; ch++ {
			samples[f*channels+ch] = v
		}
	}

	return &audio.PCM{
		Format: audio.Format{
			Codec:      "pcm",
			SampleRate: sampleRate,
			Channels:   channels,
			BitDepth:   32,
		},
		Samples: samples,
	}
}
