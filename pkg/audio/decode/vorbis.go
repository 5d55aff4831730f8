// ABOUTME: Ogg Vorbis clip decoder
// ABOUTME: Decodes Ogg Vorbis files using jfreymuth/oggvorbis
package decode

import (
	"fmt"
	"io"

	"github.com/Resonate-Protocol/clipdeck/pkg/audio"
	"github.com/jfreymuth/oggvorbis"
)

// Vorbis decodes Ogg Vorbis files
type Vorbis struct{}

func (Vorbis) Decode(r io.ReadSeeker) (*audio.PCM, error) {
	samples, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("vorbis decode error: %w", err)
	}
	if len(samples) == 0 {
		return nil, ErrNoAudio
	}

	return &audio.PCM{
		Format: audio.Format{
			Codec:      "vorbis",
			SampleRate: format.SampleRate,
			Channels:   format.Channels,
		},
		Samples: trimToFrames(samples, format.Channels),
	}, nil
}
