// ABOUTME: WAV clip decoder
// ABOUTME: Decodes integer PCM WAV files using go-audio/wav
package decode

import (
	"fmt"
	"io"

	"github.com/Resonate-Protocol/clipdeck/pkg/audio"
	"github.com/go-audio/wav"
)

const (
	wavFormatPCM        = 1
	wavFormatExtensible = 0xFFFE
)

// WAV decodes RIFF WAVE files holding integer PCM
type WAV struct{}

func (WAV) Decode(r io.ReadSeeker) (*audio.PCM, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}
	if dec.WavAudioFormat != wavFormatPCM && dec.WavAudioFormat != wavFormatExtensible {
		return nil, fmt.Errorf("%w (format tag %d)", ErrOnlyPCMSupported, dec.WavAudioFormat)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("wav decode error: %w", err)
	}
	if buf == nil || len(buf.Data) == 0 {
		return nil, ErrNoAudio
	}

	channels := int(dec.NumChans)
	bitDepth := int(dec.BitDepth)
	samples := make([]float32, len(buf.Data))
	for i, s := range buf.Data {
		samples[i] = audio.SampleFromInt(s, bitDepth)
	}

	return &audio.PCM{
		Format: audio.Format{
			Codec:      "wav",
			SampleRate: int(dec.SampleRate),
			Channels:   channels,
			BitDepth:   bitDepth,
		},
		Samples: trimToFrames(samples, channels),
	}, nil
}
