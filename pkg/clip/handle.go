// ABOUTME: Shared handle to a loaded clip and its caller state
// ABOUTME: Transport control, state access serialized with completions, and unload on last Close
package clip

import (
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/Resonate-Protocol/clipdeck/pkg/engine"
)

// clipState is shared by every Handle cloned from one Load.
type clipState[T any] struct {
	id   engine.ClipID
	path string
	s    *session
	refs atomic.Int64

	completions atomic.Uint64

	// closed is set once the last reference is released; completions
	// that were already in flight are dropped after it is set
	closed atomic.Bool

	mu    sync.Mutex
	state T
	onEnd func(*T)
}

// complete runs on an engine goroutine when the clip reaches its end.
// A panicking callback is not recovered.
func (c *clipState[T]) complete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed.Load() {
		return
	}

	c.completions.Add(1)
	clipCompletionsTotal.Inc()
	if c.onEnd != nil {
		c.onEnd(&c.state)
	}
}

func (c *clipState[T]) release() {
	switch n := c.refs.Add(-1); {
	case n > 0:
		return
	case n < 0:
		panic("clip: clip released more times than retained")
	}

	// c.mu is not taken here: an on-end callback may close its own handle
	c.closed.Store(true)
	c.s.bridge.unregister(engine.Outer(c.id))
	c.s.engine.Unload(c.id, c.s.token)
	clipsLoaded.Dec()
	c.s.log.Debug().Uint64("clip", uint64(c.id)).Str("path", c.path).Msg("clip unloaded")
	c.s.release()
}

// Handle is one reference to a loaded clip. T is the caller state the
// on-end callback mutates. Clone shares the clip; the native clip is
// unloaded when every Handle has been closed.
//
// After Close, a Handle value no longer reaches the engine: transport,
// device and state-mutating calls do nothing and queries report zero
// values. ID, Path, Name, Completions and State stay readable.
type Handle[T any] struct {
	c      *clipState[T]
	closed atomic.Bool
}

// ID returns the clip id.
func (h *Handle[T]) ID() engine.ClipID {
	return h.c.id
}

// Path returns the path the clip was loaded from.
func (h *Handle[T]) Path() string {
	return h.c.path
}

// Name returns the final element of the clip path, or Undefined when the
// path has none or it is not valid UTF-8.
func (h *Handle[T]) Name() string {
	return clipName(h.c.path)
}

func clipName(path string) string {
	var last string
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part != "" && part != "." {
			last = part
		}
	}
	if last == "" || last == ".." || !utf8.ValidString(last) {
		return Undefined
	}
	return last
}

func (h *Handle[T]) Play() {
	if h.closed.Load() {
		return
	}
	h.c.s.engine.Play(h.c.id, h.c.s.token)
}

func (h *Handle[T]) Stop() {
	if h.closed.Load() {
		return
	}
	h.c.s.engine.Stop(h.c.id, h.c.s.token)
}

// Reset stops the clip and rewinds it to the start.
func (h *Handle[T]) Reset() {
	if h.closed.Load() {
		return
	}
	h.c.s.engine.Reset(h.c.id, h.c.s.token)
}

// SetVolume passes v to the engine unchanged. 1.0 is unity gain.
func (h *Handle[T]) SetVolume(v float32) {
	if h.closed.Load() {
		return
	}
	h.c.s.engine.SetVolume(h.c.id, h.c.s.token, v)
}

func (h *Handle[T]) Volume() float32 {
	if h.closed.Load() {
		return 0
	}
	return h.c.s.engine.Volume(h.c.id, h.c.s.token)
}

func (h *Handle[T]) IsPlaying() bool {
	if h.closed.Load() {
		return false
	}
	return h.c.s.engine.IsPlaying(h.c.id, h.c.s.token)
}

func (h *Handle[T]) IsPaused() bool {
	if h.closed.Load() {
		return false
	}
	return !h.IsPlaying()
}

// Duration returns the clip length at millisecond resolution.
func (h *Handle[T]) Duration() time.Duration {
	if h.closed.Load() {
		return 0
	}
	return time.Duration(h.c.s.engine.Duration(h.c.id, h.c.s.token)) * time.Millisecond
}

// SetOutputDevice moves the clip to another output device.
func (h *Handle[T]) SetOutputDevice(d Device) {
	if h.closed.Load() {
		return
	}
	h.c.s.engine.SetDevice(h.c.id, h.c.s.token, d.info)
}

// Completions returns how many end-of-clip notifications reached this clip.
func (h *Handle[T]) Completions() uint64 {
	return h.c.completions.Load()
}

// SetState replaces the caller state. It waits for a running on-end
// callback to return.
func (h *Handle[T]) SetState(v T) {
	if h.closed.Load() {
		return
	}
	h.c.mu.Lock()
	h.c.state = v
	h.c.mu.Unlock()
}

// ModifyState runs f with exclusive access to the caller state.
// f must not call state methods on any Handle of the same clip.
func (h *Handle[T]) ModifyState(f func(*T)) {
	if h.closed.Load() {
		return
	}
	h.c.mu.Lock()
	defer h.c.mu.Unlock()
	f(&h.c.state)
}

// State returns a copy of the caller state.
func (h *Handle[T]) State() T {
	h.c.mu.Lock()
	defer h.c.mu.Unlock()
	return h.c.state
}

// Clone returns another reference to the same clip.
func (h *Handle[T]) Clone() *Handle[T] {
	if h.closed.Load() {
		panic("clip: Clone of closed Handle")
	}
	h.c.refs.Add(1)
	return &Handle[T]{c: h.c}
}

// Close drops this reference. Calling Close more than once returns ErrClosed.
func (h *Handle[T]) Close() error {
	if !h.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	h.c.release()
	return nil
}
