//go:build opus

// ABOUTME: Ogg Opus clip decoder (requires libopusfile)
// ABOUTME: Decodes Ogg Opus files at 48kHz using hraban/opus
package decode

import (
	"errors"
	"fmt"
	"io"

	"github.com/Resonate-Protocol/clipdeck/pkg/audio"
	"gopkg.in/hraban/opus.v2"
)

// maxOpusFrame is 120ms at 48kHz, the longest Opus packet
const maxOpusFrame = 5760

// Opus decodes Ogg Opus files
type Opus struct{}

func registerOpus(r *Registry) {
	r.Register(".opus", Opus{})
}

func (Opus) Decode(r io.ReadSeeker) (*audio.PCM, error) {
	channels, err := opusChannels(r)
	if err != nil {
		return nil, err
	}

	stream, err := opus.NewStream(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open opus stream: %w", err)
	}
	defer stream.Close()

	buf := make([]float32, maxOpusFrame*channels)
	var samples []float32
	for {
		n, err := stream.ReadFloat32(buf)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("opus decode error: %w", err)
		}
		samples = append(samples, buf[:n*channels]...)
	}

	if len(samples) == 0 {
		return nil, ErrNoAudio
	}

	return &audio.PCM{
		Format: audio.Format{
			Codec:      "opus",
			SampleRate: opusSampleRate,
			Channels:   channels,
			BitDepth:   16,
		},
		Samples: samples,
	}, nil
}
