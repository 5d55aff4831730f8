// ABOUTME: One loaded clip on an oto player
// ABOUTME: Streams the cursor to the player and reports the end once the player has drained
package otoplay

import (
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Resonate-Protocol/clipdeck/pkg/audio"
	"github.com/Resonate-Protocol/clipdeck/pkg/engine"
	"github.com/ebitengine/oto/v3"
	"github.com/rs/zerolog"
)

// drainPoll is how often a finished clip checks whether oto has played
// its buffered tail
const drainPoll = 5 * time.Millisecond

type clip struct {
	cursor *audio.Cursor
	onEnd  engine.CompletionFunc
	log    zerolog.Logger
	player *oto.Player

	// ending is set when the player has read the last sample
	ending atomic.Bool

	mu       sync.Mutex
	outer    engine.Outer
	hasOuter bool
	closed   bool
}

func newClip(pcm *audio.PCM, onEnd engine.CompletionFunc, logger zerolog.Logger) *clip {
	return &clip{
		cursor: audio.NewCursor(pcm),
		onEnd:  onEnd,
		log:    logger,
	}
}

// clipSource is what the oto player pulls from
type clipSource struct {
	c *clip
}

func (c *clip) source() io.ReadSeeker {
	return &clipSource{c: c}
}

func (s *clipSource) Read(p []byte) (int, error) {
	n, err := s.c.cursor.Read(p)
	if err == io.EOF && s.c.ending.CompareAndSwap(false, true) {
		go s.c.finish()
	}
	return n, err
}

func (s *clipSource) Seek(offset int64, whence int) (int64, error) {
	return s.c.cursor.Seek(offset, whence)
}

// finish waits for the player to drain, rewinds and notifies the session.
func (c *clip) finish() {
	ticker := time.NewTicker(drainPoll)
	defer ticker.Stop()

	for {
		c.mu.Lock()
		if c.closed || !c.ending.Load() {
			c.mu.Unlock()
			return
		}
		if !c.player.IsPlaying() {
			break
		}
		c.mu.Unlock()
		<-ticker.C
	}

	if _, err := c.player.Seek(0, io.SeekStart); err != nil {
		c.log.Warn().Err(err).Msg("failed to rewind player")
	}
	c.ending.Store(false)
	outer, ok := c.outer, c.hasOuter
	c.mu.Unlock()

	if ok {
		c.onEnd(outer)
	}
}

func (c *clip) setOuter(outer engine.Outer) {
	c.mu.Lock()
	c.outer = outer
	c.hasOuter = true
	c.mu.Unlock()
}

func (c *clip) play() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if c.cursor.Ended() && !c.ending.Load() {
		if _, err := c.player.Seek(0, io.SeekStart); err != nil {
			c.log.Warn().Err(err).Msg("failed to rewind player")
		}
	}
	c.player.Play()
}

func (c *clip) stop(rewind bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.player.Pause()
	c.ending.Store(false)
	if rewind {
		if _, err := c.player.Seek(0, io.SeekStart); err != nil {
			c.log.Warn().Err(err).Msg("failed to rewind player")
		}
	}
}

func (c *clip) isPlaying() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed && c.player.IsPlaying()
}

func (c *clip) setVolume(v float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.player.SetVolume(float64(v))
	}
}

func (c *clip) volume() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return 0
	}
	return float32(c.player.Volume())
}

func (c *clip) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	if err := c.player.Close(); err != nil {
		c.log.Warn().Err(err).Msg("player close error")
	}
}
