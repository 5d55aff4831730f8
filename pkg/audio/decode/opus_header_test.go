// ABOUTME: Tests for Ogg Opus header parsing
// ABOUTME: Tests channel count extraction and rewinding of the reader
package decode

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func oggOpusHead(channels byte) []byte {
	page := []byte("OggS")
	page = append(page, make([]byte, 23)...) // rest of the page header
	page = append(page, 19)                  // one 19-byte segment
	page = append(page, "OpusHead"...)
	page = append(page, 1, channels)
	page = append(page, make([]byte, 9)...)
	return page
}

func TestOpusChannels(t *testing.T) {
	for _, ch := range []byte{1, 2, 6} {
		r := bytes.NewReader(oggOpusHead(ch))

		got, err := opusChannels(r)
		require.NoError(t, err)
		assert.Equal(t, int(ch), got)

		pos, err := r.Seek(0, io.SeekCurrent)
		require.NoError(t, err)
		assert.Equal(t, int64(0), pos)
	}
}

func TestOpusChannelsRejects(t *testing.T) {
	tests := map[string][]byte{
		"empty":         nil,
		"not ogg":       []byte("RIFF0000WAVEfmt "),
		"vorbis":        append([]byte("OggS"), []byte("\x01vorbis")...),
		"zero channels": oggOpusHead(0),
		"truncated":     []byte("OggSOpusHead\x01"),
	}

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := opusChannels(bytes.NewReader(data))
			assert.ErrorIs(t, err, ErrNotOpusFile)
		})
	}
}
