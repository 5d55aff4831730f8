// ABOUTME: Raw PCM sample unpacking
// ABOUTME: Converts little-endian 16-bit and 24-bit PCM bytes to float32 clips
package decode

import (
	"encoding/binary"

	"github.com/Resonate-Protocol/clipdeck/pkg/audio"
)

// PCM16LE converts interleaved signed 16-bit little-endian bytes to a clip.
// A trailing partial sample is ignored.
func PCM16LE(data []byte, format audio.Format) *audio.PCM {
	samples := make([]float32, len(data)/2)
	for i := range samples {
		samples[i] = audio.SampleFromInt16(int16(binary.LittleEndian.Uint16(data[i*2:])))
	}
	format.BitDepth = 16
	return &audio.PCM{Format: format, Samples: trimToFrames(samples, format.Channels)}
}

// PCM24LE converts interleaved signed 24-bit little-endian bytes to a clip.
func PCM24LE(data []byte, format audio.Format) *audio.PCM {
	samples := make([]float32, len(data)/3)
	for i := range samples {
		b := [3]byte{data[i*3], data[i*3+1], data[i*3+2]}
		samples[i] = audio.SampleFromInt(int(audio.SampleFrom24Bit(b)), 24)
	}
	format.BitDepth = 24
	return &audio.PCM{Format: format, Samples: trimToFrames(samples, format.Channels)}
}

// trimToFrames drops samples that do not complete a frame
func trimToFrames(samples []float32, channels int) []float32 {
	if channels <= 0 {
		return samples
	}
	return samples[:len(samples)-len(samples)%channels]
}
