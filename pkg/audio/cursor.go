// ABOUTME: Playback position over a decoded clip
// ABOUTME: Frame reads for callback devices and a float32 byte stream for pull players
package audio

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
	"sync"
)

var errNegativeSeek = errors.New("audio: negative seek position")

// Cursor reads a PCM clip from a movable position, scaling samples by a
// gain. Safe for concurrent use.
type Cursor struct {
	mu   sync.Mutex
	pcm  *PCM
	pos  int // index into pcm.Samples, always frame aligned
	gain float32
}

// NewCursor returns a cursor at the start of p with unity gain.
func NewCursor(p *PCM) *Cursor {
	return &Cursor{pcm: p, gain: 1}
}

// PCM returns the underlying clip.
func (c *Cursor) PCM() *PCM {
	return c.pcm
}

func (c *Cursor) SetGain(g float32) {
	c.mu.Lock()
	c.gain = g
	c.mu.Unlock()
}

func (c *Cursor) Gain() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gain
}

// Rewind moves the cursor back to the first frame.
func (c *Cursor) Rewind() {
	c.mu.Lock()
	c.pos = 0
	c.mu.Unlock()
}

// Frame returns the index of the next frame to be read.
func (c *Cursor) Frame() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pcm.Format.Channels <= 0 {
		return 0
	}
	return c.pos / c.pcm.Format.Channels
}

// Ended reports whether every sample has been read.
func (c *Cursor) Ended() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pos >= len(c.pcm.Samples)
}

// ReadFrames fills dst with interleaved samples, zero-filling whatever the
// clip cannot supply. It returns the number of samples copied and whether
// the clip is now exhausted.
func (c *Cursor) ReadFrames(dst []float32) (n int, ended bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n = copy(dst, c.pcm.Samples[c.pos:])
	c.pos += n
	if c.gain != 1 {
		for i := range dst[:n] {
			dst[i] *= c.gain
		}
	}
	clear(dst[n:])
	return n, c.pos >= len(c.pcm.Samples)
}

// Read implements io.Reader, producing little-endian float32 samples.
func (c *Cursor) Read(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	remaining := c.pcm.Samples[c.pos:]
	if len(remaining) == 0 {
		return 0, io.EOF
	}

	n := min(len(p)/4, len(remaining))
	for i, s := range remaining[:n] {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(s*c.gain))
	}
	c.pos += n
	return n * 4, nil
}

// Seek implements io.Seeker over the byte stream produced by Read. The
// resulting position is rounded down to a frame boundary.
func (c *Cursor) Seek(offset int64, whence int) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	frameBytes := int64(4 * max(1, c.pcm.Format.Channels))
	size := int64(len(c.pcm.Samples)) * 4

	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = int64(c.pos)*4 + offset
	case io.SeekEnd:
		abs = size + offset
	default:
		return 0, errors.New("audio: invalid whence")
	}
	if abs < 0 {
		return 0, errNegativeSeek
	}
	abs = min(abs, size)
	abs -= abs % frameBytes
	c.pos = int(abs / 4)
	return abs, nil
}
