// ABOUTME: FLAC clip decoder
// ABOUTME: Decodes FLAC files frame by frame using mewkiz/flac
package decode

import (
	"errors"
	"fmt"
	"io"

	"github.com/Resonate-Protocol/clipdeck/pkg/audio"
	"github.com/mewkiz/flac"
)

// FLAC decodes native FLAC files
type FLAC struct{}

func (FLAC) Decode(r io.ReadSeeker) (*audio.PCM, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open flac stream: %w", err)
	}
	defer stream.Close()

	channels := int(stream.Info.NChannels)
	bitDepth := int(stream.Info.BitsPerSample)
	samples := make([]float32, 0, int(stream.Info.NSamples)*channels)

	for {
		frame, err := stream.ParseNext()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("flac decode error: %w", err)
		}
		if len(frame.Subframes) != channels {
			return nil, fmt.Errorf("flac frame has %d channels, stream has %d", len(frame.Subframes), channels)
		}

		n := len(frame.Subframes[0].Samples)
		for i := 0; i < n; i++ {
			for ch := 0; ch < channels; ch++ {
				samples = append(samples, audio.SampleFromInt(int(frame.Subframes[ch].Samples[i]), bitDepth))
			}
		}
	}

	if len(samples) == 0 {
		return nil, ErrNoAudio
	}

	return &audio.PCM{
		Format: audio.Format{
			Codec:      "flac",
			SampleRate: int(stream.Info.SampleRate),
			Channels:   channels,
			BitDepth:   bitDepth,
		},
		Samples: samples,
	}, nil
}
