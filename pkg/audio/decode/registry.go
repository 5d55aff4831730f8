// ABOUTME: Decoder registry keyed by file extension
// ABOUTME: Picks a decoder for a path and decodes the file into PCM
package decode

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/Resonate-Protocol/clipdeck/pkg/audio"
)

// Registry maps file extensions to decoders
type Registry struct {
	mu       sync.RWMutex
	decoders map[string]Decoder
}

// NewRegistry returns an empty registry
func NewRegistry() *Registry {
	return &Registry{decoders: make(map[string]Decoder)}
}

// DefaultRegistry returns a registry with every built-in decoder
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(".mp3", MP3{})
	r.Register(".flac", FLAC{})
	r.Register(".ogg", Vorbis{})
	r.Register(".oga", Vorbis{})
	r.Register(".wav", WAV{})
	r.Register(".aif", AIFF{})
	r.Register(".aiff", AIFF{})
	registerOpus(r)
	return r
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// Register installs d for ext, replacing any previous decoder
func (r *Registry) Register(ext string, d Decoder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decoders[normalizeExt(ext)] = d
}

// Lookup returns the decoder for ext
func (r *Registry) Lookup(ext string) (Decoder, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.decoders[normalizeExt(ext)]
	return d, ok
}

// Extensions returns the registered extensions in sorted order
func (r *Registry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	exts := make([]string, 0, len(r.decoders))
	for ext := range r.decoders {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return exts
}

// DecodeFile decodes the file at path with the decoder for its extension
func (r *Registry) DecodeFile(path string) (*audio.PCM, error) {
	ext := filepath.Ext(path)
	d, ok := r.Lookup(ext)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open clip: %w", err)
	}
	defer f.Close()

	pcm, err := d.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	if pcm.Format.Channels <= 0 || pcm.Format.SampleRate <= 0 || len(pcm.Samples) == 0 {
		return nil, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), ErrNoAudio)
	}
	return pcm, nil
}
