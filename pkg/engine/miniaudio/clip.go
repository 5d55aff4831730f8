// ABOUTME: One loaded clip on a malgo playback device
// ABOUTME: Feeds the device from a cursor and reports the end of the clip off the audio thread
package miniaudio

import (
	"encoding/binary"
	"math"
	"sync"
	"sync/atomic"

	"github.com/Resonate-Protocol/clipdeck/pkg/audio"
	"github.com/Resonate-Protocol/clipdeck/pkg/engine"
	"github.com/gen2brain/malgo"
	"github.com/rs/zerolog"
)

type clip struct {
	cursor *audio.Cursor
	log    zerolog.Logger
	onEnd  engine.CompletionFunc

	playing atomic.Bool
	// ending is set by the audio thread once the cursor is exhausted. It
	// is cleared when the end has been handled or playback was stopped or
	// restarted first, in which case the pending finish does nothing.
	ending atomic.Bool

	// scratch is only touched from the device data callback
	scratch []float32

	mu         sync.Mutex
	device     *malgo.Device
	deviceInfo engine.DeviceInfo
	outer      engine.Outer
	hasOuter   bool
	closed     bool
}

// fill runs on the miniaudio audio thread.
func (c *clip) fill(out []byte, frames uint32, channels int) {
	if c.ending.Load() {
		clear(out)
		return
	}

	n := int(frames) * channels
	if cap(c.scratch) < n {
		c.scratch = make([]float32, n)
	}
	buf := c.scratch[:n]

	_, ended := c.cursor.ReadFrames(buf)
	for i, s := range buf {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(s))
	}

	// The device cannot be stopped from its own callback
	if ended && c.ending.CompareAndSwap(false, true) {
		go c.finish()
	}
}

// finish stops and rewinds a clip that played to its end, then notifies
// the session.
func (c *clip) finish() {
	c.mu.Lock()
	if c.closed || !c.ending.Load() {
		c.mu.Unlock()
		return
	}
	if err := c.device.Stop(); err != nil {
		c.log.Warn().Err(err).Msg("device stop error")
	}
	c.cursor.Rewind()
	c.playing.Store(false)
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
	if c.closed || c.playing.Load() {
		return
	}
	if c.cursor.Ended() {
		c.cursor.Rewind()
	}
	c.ending.Store(false)
	if err := c.device.Start(); err != nil {
		c.log.Warn().Err(err).Msg("device start error")
		return
	}
	c.playing.Store(true)
}

func (c *clip) stop(rewind bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if c.device.IsStarted() {
		if err := c.device.Stop(); err != nil {
			c.log.Warn().Err(err).Msg("device stop error")
		}
	}
	c.playing.Store(false)
	c.ending.Store(false)
	if rewind {
		c.cursor.Rewind()
	}
}

func (c *clip) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.playing.Store(false)
	c.device.Uninit()
}
