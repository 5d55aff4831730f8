// ABOUTME: Encoder interface definition
// ABOUTME: Common interface for clip encoders and extension based selection
package encode

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Resonate-Protocol/clipdeck/pkg/audio"
)

// ErrUnsupportedFormat is returned for file extensions without an encoder
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Encoder writes a clip to w
type Encoder interface {
	Encode(w io.WriteSeeker, pcm *audio.PCM) error
}

// ForPath picks a 16-bit encoder from the file extension
func ForPath(path string) (Encoder, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return WAV{BitDepth: 16}, nil
	case ".aif", ".aiff":
		return AIFF{BitDepth: 16}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// WriteFile encodes pcm into a new file at path
func WriteFile(path string, pcm *audio.PCM) error {
	enc, err := ForPath(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := enc.Encode(f, pcm); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
