// ABOUTME: MP3 clip decoder
// ABOUTME: Decodes MP3 files to float32 PCM using go-mp3
package decode

import (
	"fmt"
	"io"

	"github.com/Resonate-Protocol/clipdeck/pkg/audio"
	"github.com/hajimehoshi/go-mp3"
)

// MP3 decodes MPEG-1/2 layer III files. go-mp3 always produces 16-bit stereo.
type MP3 struct{}

func (MP3) Decode(r io.ReadSeeker) (*audio.PCM, error) {
	decoder, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create mp3 decoder: %w", err)
	}

	data, err := io.ReadAll(decoder)
	if err != nil {
		return nil, fmt.Errorf("mp3 decode error: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrNoAudio
	}

	return PCM16LE(data, audio.Format{
		Codec:      "mp3",
		SampleRate: decoder.SampleRate(),
		Channels:   2,
	}), nil
}
