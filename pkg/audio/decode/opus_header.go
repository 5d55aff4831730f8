// ABOUTME: Ogg Opus identification header parsing
// ABOUTME: Reads the channel count that the opusfile stream API does not expose
package decode

import (
	"bytes"
	"fmt"
	"io"
)

// Ogg Opus always decodes at 48kHz regardless of the original input rate
const opusSampleRate = 48000

// The identification header sits in the first Ogg page, well inside this.
const opusPeekSize = 512

var opusHeadMagic = []byte("OpusHead")

// opusChannels reads the channel count from the OpusHead packet and seeks
// r back to the start.
func opusChannels(r io.ReadSeeker) (int, error) {
	peek := make([]byte, opusPeekSize)
	n, err := io.ReadFull(r, peek)
	if err != nil && err != io.ErrUnexpectedEOF {
		return 0, fmt.Errorf("%w: %w", ErrNotOpusFile, err)
	}
	peek = peek[:n]

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return 0, fmt.Errorf("failed to rewind opus file: %w", err)
	}

	if !bytes.HasPrefix(peek, []byte("OggS")) {
		return 0, ErrNotOpusFile
	}
	idx := bytes.Index(peek, opusHeadMagic)
	// magic(8) version(1) channels(1)
	if idx < 0 || idx+10 > len(peek) {
		return 0, ErrNotOpusFile
	}
	channels := int(peek[idx+9])
	if channels == 0 {
		return 0, ErrNotOpusFile
	}
	return channels, nil
}
