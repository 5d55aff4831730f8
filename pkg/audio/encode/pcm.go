// ABOUTME: WAV and AIFF encoders
// ABOUTME: Quantizes float32 clips to 16 or 24-bit integer PCM for go-audio encoders
package encode

import (
	"fmt"
	"io"

	"github.com/Resonate-Protocol/clipdeck/pkg/audio"
	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WAV encodes integer PCM WAV files
type WAV struct {
	BitDepth int
}

// AIFF encodes integer PCM AIFF files
type AIFF struct {
	BitDepth int
}

func (e WAV) Encode(w io.WriteSeeker, pcm *audio.PCM) error {
	buf, err := intBuffer(pcm, e.BitDepth)
	if err != nil {
		return err
	}

	// 1 is the WAV PCM format tag
	enc := wav.NewEncoder(w, pcm.Format.SampleRate, e.BitDepth, pcm.Format.Channels, 1)
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("wav encode failed: %w", err)
	}
	return enc.Close()
}

func (e AIFF) Encode(w io.WriteSeeker, pcm *audio.PCM) error {
	buf, err := intBuffer(pcm, e.BitDepth)
	if err != nil {
		return err
	}

	enc := aiff.NewEncoder(w, pcm.Format.SampleRate, e.BitDepth, pcm.Format.Channels)
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("aiff encode failed: %w", err)
	}
	return enc.Close()
}

// intBuffer quantizes pcm to the given bit depth
func intBuffer(pcm *audio.PCM, bitDepth int) (*goaudio.IntBuffer, error) {
	if pcm == nil || pcm.Format.Channels <= 0 || pcm.Format.SampleRate <= 0 {
		return nil, fmt.Errorf("invalid clip format")
	}

	data := make([]int, len(pcm.Samples))
	switch bitDepth {
	case 16:
		for i, s := range pcm.Samples {
			data[i] = int(audio.SampleToInt16(s))
		}
	case 24:
		for i, s := range pcm.Samples {
			data[i] = quantize24(s)
		}
	default:
		return nil, fmt.Errorf("unsupported bit depth: %d (supported: 16, 24)", bitDepth)
	}

	return &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: pcm.Format.Channels,
			SampleRate:  pcm.Format.SampleRate,
		},
		Data:           data,
		SourceBitDepth: bitDepth,
	}, nil
}

func quantize24(s float32) int {
	v := int(s * 8388608.0)
	if v > audio.Max24Bit {
		return audio.Max24Bit
	}
	if v < audio.Min24Bit {
		return audio.Min24Bit
	}
	return v
}
