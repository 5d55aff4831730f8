// ABOUTME: AIFF clip decoder
// ABOUTME: Decodes AIFF files using go-audio/aiff
package decode

import (
	"fmt"
	"io"

	"github.com/Resonate-Protocol/clipdeck/pkg/audio"
	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
)

const aiffChunkSamples = 4096

// AIFF decodes AIFF files
type AIFF struct{}

func (AIFF) Decode(r io.ReadSeeker) (*audio.PCM, error) {
	dec := aiff.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, ErrNotAiffFile
	}
	dec.ReadInfo()

	format := dec.Format()
	if format == nil || format.NumChannels <= 0 {
		return nil, ErrNotAiffFile
	}
	bitDepth := int(dec.BitDepth)

	buf := &goaudio.IntBuffer{
		Format: format,
		Data:   make([]int, aiffChunkSamples*format.NumChannels),
	}

	var samples []float32
	for {
		n, err := dec.PCMBuffer(buf)
		for _, s := range buf.Data[:n] {
			samples = append(samples, audio.SampleFromInt(s, bitDepth))
		}
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("aiff decode error: %w", err)
		}
		if n == 0 || err == io.EOF {
			break
		}
	}

	if len(samples) == 0 {
		return nil, ErrNoAudio
	}

	return &audio.PCM{
		Format: audio.Format{
			Codec:      "aiff",
			SampleRate: format.SampleRate,
			Channels:   format.NumChannels,
			BitDepth:   bitDepth,
		},
		Samples: trimToFrames(samples, format.NumChannels),
	}, nil
}
