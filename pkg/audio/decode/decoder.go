// ABOUTME: Decoder interface and error values
// ABOUTME: Common interface for whole-file clip decoders
package decode

import (
	"errors"
	"io"

	"github.com/Resonate-Protocol/clipdeck/pkg/audio"
)

var (
	ErrUnsupportedFormat = errors.New("decode: unsupported file format")
	ErrNoAudio           = errors.New("decode: no audio frames")
	ErrNotWavFile        = errors.New("decode: not a valid wav file")
	ErrNotAiffFile       = errors.New("decode: not a valid aiff file")
	ErrNotOpusFile       = errors.New("decode: not an ogg opus file")
	ErrOnlyPCMSupported  = errors.New("decode: only integer PCM is supported")
)

// Decoder decodes an entire clip into memory
type Decoder interface {
	Decode(r io.ReadSeeker) (*audio.PCM, error)
}

// DecoderFunc adapts a function to the Decoder interface
type DecoderFunc func(r io.ReadSeeker) (*audio.PCM, error)

func (f DecoderFunc) Decode(r io.ReadSeeker) (*audio.PCM, error) {
	return f(r)
}
