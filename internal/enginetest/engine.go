// ABOUTME: Scripted in-memory engine for tests
// ABOUTME: Records native calls and lets tests trigger end-of-clip notifications
package enginetest

import (
	"errors"
	"sync"

	"github.com/Resonate-Protocol/clipdeck/pkg/engine"
)

// ErrOpen is returned by OpenContext when Engine.FailOpen is set.
var ErrOpen = errors.New("enginetest: open failed")

type clip struct {
	path     string
	device   engine.DeviceInfo
	outer    engine.Outer
	outerSet int
	playing  bool
	volume   float32
	unloads  int
}

type session struct {
	onEnd  engine.CompletionFunc
	closes int
	clips  map[engine.ClipID]*clip
}

// Engine is a fake engine. Configure the exported fields before use.
type Engine struct {
	// FailOpen makes OpenContext fail.
	FailOpen bool

	// Outputs is the device list reported by DeviceCount and Devices.
	Outputs []engine.DeviceInfo

	// Default is returned by DefaultDevice.
	Default engine.DeviceInfo

	// Vanish is how many devices disappear between DeviceCount and Devices.
	Vanish int

	// LoadStatus maps a path to the status Load returns (default StatusOK).
	LoadStatus map[string]engine.Status

	// DurationMs is reported for every clip.
	DurationMs uint64

	mu       sync.Mutex
	next     engine.Session
	sessions map[engine.Session]*session
	loads    int
	closed   []engine.Session
}

// New returns an engine with no devices.
func New() *Engine {
	return &Engine{}
}

func (e *Engine) OpenContext(onClipEnd engine.CompletionFunc) (engine.Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.FailOpen {
		return 0, ErrOpen
	}
	if e.sessions == nil {
		e.sessions = make(map[engine.Session]*session)
	}
	e.next++
	e.sessions[e.next] = &session{onEnd: onClipEnd, clips: make(map[engine.ClipID]*clip)}
	return e.next, nil
}

func (e *Engine) CloseContext(s engine.Session) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if ss, ok := e.sessions[s]; ok {
		ss.closes++
	}
	e.closed = append(e.closed, s)
}

func (e *Engine) DefaultDevice(engine.Session) engine.DeviceInfo {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Default
}

func (e *Engine) DeviceCount(engine.Session) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.Outputs)
}

func (e *Engine) Devices(_ engine.Session, dst []engine.DeviceInfo) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	avail := e.Outputs
	if e.Vanish > 0 {
		avail = avail[:max(0, len(avail)-e.Vanish)]
	}
	return copy(dst, avail)
}

func (e *Engine) Load(id engine.ClipID, s engine.Session, path string, device engine.DeviceInfo) engine.Status {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.loads++
	if status, ok := e.LoadStatus[path]; ok && status != engine.StatusOK {
		return status
	}
	ss, ok := e.sessions[s]
	if !ok {
		return engine.StatusDeviceError
	}
	ss.clips[id] = &clip{path: path, device: device, volume: 1}
	return engine.StatusOK
}

func (e *Engine) SetOuter(id engine.ClipID, s engine.Session, outer engine.Outer) {
	e.withClip(id, s, func(c *clip) {
		c.outer = outer
		c.outerSet++
	})
}

func (e *Engine) Unload(id engine.ClipID, s engine.Session) {
	e.withClip(id, s, func(c *clip) {
		c.unloads++
		c.playing = false
	})
}

func (e *Engine) Play(id engine.ClipID, s engine.Session) {
	e.withClip(id, s, func(c *clip) { c.playing = true })
}

func (e *Engine) Stop(id engine.ClipID, s engine.Session) {
	e.withClip(id, s, func(c *clip) { c.playing = false })
}

func (e *Engine) Reset(id engine.ClipID, s engine.Session) {
	e.withClip(id, s, func(c *clip) { c.playing = false })
}

func (e *Engine) SetVolume(id engine.ClipID, s engine.Session, volume float32) {
	e.withClip(id, s, func(c *clip) { c.volume = volume })
}

func (e *Engine) Volume(id engine.ClipID, s engine.Session) float32 {
	var v float32
	e.withClip(id, s, func(c *clip) { v = c.volume })
	return v
}

func (e *Engine) IsPlaying(id engine.ClipID, s engine.Session) bool {
	var playing bool
	e.withClip(id, s, func(c *clip) { playing = c.playing })
	return playing
}

func (e *Engine) Duration(id engine.ClipID, s engine.Session) uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.lookup(id, s); !ok {
		return 0
	}
	return e.DurationMs
}

func (e *Engine) SetDevice(id engine.ClipID, s engine.Session, device engine.DeviceInfo) {
	e.withClip(id, s, func(c *clip) { c.device = device })
}

// Finish simulates the clip reaching its end: playback stops and the
// session completion function is called synchronously with the clip's
// outer key. It returns false if the clip is unknown or has no outer key.
func (e *Engine) Finish(s engine.Session, id engine.ClipID) bool {
	e.mu.Lock()
	ss, ok := e.sessions[s]
	if !ok {
		e.mu.Unlock()
		return false
	}
	c, ok := ss.clips[id]
	if !ok || c.outerSet == 0 {
		e.mu.Unlock()
		return false
	}
	c.playing = false
	onEnd, outer := ss.onEnd, c.outer
	e.mu.Unlock()

	onEnd(outer)
	return true
}

// Notify calls the session completion function with an arbitrary key.
func (e *Engine) Notify(s engine.Session, outer engine.Outer) {
	e.mu.Lock()
	ss, ok := e.sessions[s]
	e.mu.Unlock()
	if ok {
		ss.onEnd(outer)
	}
}

// Loads returns the number of Load calls across all sessions.
func (e *Engine) Loads() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loads
}

// Sessions returns every session ever opened.
func (e *Engine) Sessions() []engine.Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]engine.Session, 0, len(e.sessions))
	for s := range e.sessions {
		out = append(out, s)
	}
	return out
}

// Closes returns how many times s was closed.
func (e *Engine) Closes(s engine.Session) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if ss, ok := e.sessions[s]; ok {
		return ss.closes
	}
	return 0
}

// Unloads returns how many times clip id was unloaded.
func (e *Engine) Unloads(s engine.Session, id engine.ClipID) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if c, ok := e.lookup(id, s); ok {
		return c.unloads
	}
	return 0
}

// OuterSets returns how many times SetOuter was called for id, and the last key.
func (e *Engine) OuterSets(s engine.Session, id engine.ClipID) (int, engine.Outer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if c, ok := e.lookup(id, s); ok {
		return c.outerSet, c.outer
	}
	return 0, 0
}

// Device returns the device a clip was loaded on or last moved to.
func (e *Engine) Device(s engine.Session, id engine.ClipID) engine.DeviceInfo {
	e.mu.Lock()
	defer e.mu.Unlock()
	if c, ok := e.lookup(id, s); ok {
		return c.device
	}
	return engine.DeviceInfo{}
}

// Clips returns the ids loaded in s, including unloaded ones.
func (e *Engine) Clips(s engine.Session) []engine.ClipID {
	e.mu.Lock()
	defer e.mu.Unlock()
	ss, ok := e.sessions[s]
	if !ok {
		return nil
	}
	out := make([]engine.ClipID, 0, len(ss.clips))
	for id := range ss.clips {
		out = append(out, id)
	}
	return out
}

func (e *Engine) lookup(id engine.ClipID, s engine.Session) (*clip, bool) {
	ss, ok := e.sessions[s]
	if !ok {
		return nil, false
	}
	c, ok := ss.clips[id]
	return c, ok
}

func (e *Engine) withClip(id engine.ClipID, s engine.Session, f func(*clip)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if c, ok := e.lookup(id, s); ok {
		f(c)
	}
}

var _ engine.Engine = (*Engine)(nil)
