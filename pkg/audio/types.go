// ABOUTME: Audio type definitions
// ABOUTME: Defines decoded clip PCM, its format and sample conversions
package audio

import "time"

const (
	// 24-bit audio range constants
	Max24Bit = 8388607  // 2^23 - 1
	Min24Bit = -8388608 // -2^23
)

// Format describes a decoded clip
type Format struct {
	Codec      string
	SampleRate int
	Channels   int
	BitDepth   int // of the source, before conversion to float32
}

// PCM is a fully decoded clip: interleaved float32 samples in [-1, 1]
type PCM struct {
	Format  Format
	Samples []float32
}

// Frames returns the number of sample frames
func (p *PCM) Frames() int {
	if p.Format.Channels <= 0 {
		return 0
	}
	return len(p.Samples) / p.Format.Channels
}

// DurationMs returns the clip length in whole milliseconds
func (p *PCM) DurationMs() uint64 {
	if p.Format.SampleRate <= 0 {
		return 0
	}
	return uint64(p.Frames()) * 1000 / uint64(p.Format.SampleRate)
}

// Duration returns the clip length
func (p *PCM) Duration() time.Duration {
	if p.Format.SampleRate <= 0 {
		return 0
	}
	return time.Duration(p.Frames()) * time.Second / time.Duration(p.Format.SampleRate)
}

// Remix returns p converted to the given channel count. Mono is spread to
// every output channel; downmixing to mono averages. Other layouts map
// output channel i to input channel i modulo the input count.
func (p *PCM) Remix(channels int) *PCM {
	src := p.Format.Channels
	if channels <= 0 || channels == src || src <= 0 {
		return p
	}

	frames := p.Frames()
	out := make([]float32, frames*channels)

	for f := 0; f < frames; f++ {
		in := p.Samples[f*src : (f+1)*src]
		dst := out[f*channels : (f+1)*channels]

		if channels == 1 {
			var sum float32
			for _, s := range in {
				sum += s
			}
			dst[0] = sum / float32(src)
			continue
		}
		for ch := range dst {
			dst[ch] = in[ch%src]
		}
	}

	format := p.Format
	format.Channels = channels
	return &PCM{Format: format, Samples: out}
}

// SampleFromInt16 converts an int16 sample to float32
func SampleFromInt16(sample int16) float32 {
	return float32(sample) / 32768.0
}

// SampleToInt16 converts a float32 sample to int16, clipping out-of-range values
func SampleToInt16(sample float32) int16 {
	v := sample * 32768.0
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}

// SampleFromInt converts an integer sample of the given bit depth to float32
func SampleFromInt(sample int, bitDepth int) float32 {
	switch bitDepth {
	case 8:
		return float32(sample) / 128.0
	case 16:
		return float32(sample) / 32768.0
	case 24:
		return float32(sample) / 8388608.0
	case 32:
		return float32(sample) / 2147483648.0
	default:
		if bitDepth <= 0 || bitDepth > 32 {
			return float32(sample) / 32768.0
		}
		return float32(sample) / float32(int64(1)<<(bitDepth-1))
	}
}

// SampleTo24Bit converts int32 to 24-bit packed bytes (little-endian)
func SampleTo24Bit(sample int32) [3]byte {
	return [3]byte{
		byte(sample),
		byte(sample >> 8),
		byte(sample >> 16),
	}
}

// SampleFrom24Bit converts 24-bit packed bytes to int32 (little-endian)
func SampleFrom24Bit(b [3]byte) int32 {
	val := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
	// Sign extend from 24-bit to 32-bit
	if val&0x800000 != 0 {
		val |= ^0xFFFFFF
	}
	return val
}
