// ABOUTME: Builder for loading clips
// ABOUTME: Validates the path, loads through the engine and registers the clip for completions
package clip

import (
	"errors"
	"fmt"
	"os"

	"github.com/Resonate-Protocol/clipdeck/pkg/engine"
)

// Loader collects the options for loading one clip. The zero value of T
// is used as the initial caller state unless State is called.
type Loader[T any] struct {
	path   string
	ctx    *Context
	device *Device
	volume float32
	onEnd  func(*T)
	state  T
}

// NewLoader starts a loader for path in ctx.
func NewLoader[T any](path string, ctx *Context) *Loader[T] {
	return &Loader[T]{
		path:   path,
		ctx:    ctx,
		volume: 1.0,
	}
}

func (l *Loader[T]) Path(path string) *Loader[T] {
	l.path = path
	return l
}

func (l *Loader[T]) Context(ctx *Context) *Loader[T] {
	l.ctx = ctx
	return l
}

// Device selects the output device. Without it the engine default is used.
func (l *Loader[T]) Device(d Device) *Loader[T] {
	l.device = &d
	return l
}

// Volume sets the initial volume (default 1.0).
func (l *Loader[T]) Volume(v float32) *Loader[T] {
	l.volume = v
	return l
}

// OnEnd sets the callback run each time the clip reaches its end. It runs
// on an engine goroutine holding the clip's state lock.
func (l *Loader[T]) OnEnd(f func(*T)) *Loader[T] {
	l.onEnd = f
	return l
}

// State sets the initial caller state.
func (l *Loader[T]) State(v T) *Loader[T] {
	l.state = v
	return l
}

// Load loads the clip. A missing file fails with ErrFile before any id is
// allocated or the engine is called; native failures map to ErrDecoder,
// ErrDevice or ErrUnknown.
func (l *Loader[T]) Load() (*Handle[T], error) {
	if l.ctx == nil {
		return nil, errors.New("clip: Loader requires a Context")
	}

	if _, err := os.Stat(l.path); err != nil {
		clipLoadsTotal.WithLabelValues("file").Inc()
		return nil, fmt.Errorf("%w: %w", ErrFile, err)
	}

	s, err := l.ctx.acquire()
	if err != nil {
		return nil, err
	}

	var device engine.DeviceInfo
	if l.device != nil {
		device = l.device.info
	} else {
		device = s.engine.DefaultDevice(s.token)
	}

	id := s.ids.Next()
	status := s.engine.Load(id, s.token, l.path, device)
	if err := statusErr(status, l.path); err != nil {
		clipLoadsTotal.WithLabelValues(loadResult(err)).Inc()
		s.log.Warn().Err(err).Uint64("clip", uint64(id)).Int32("status", int32(status)).Msg("clip load failed")
		s.release()
		return nil, err
	}

	c := &clipState[T]{
		id:    id,
		path:  l.path,
		s:     s,
		state: l.state,
		onEnd: l.onEnd,
	}
	c.refs.Store(1)

	outer := engine.Outer(id)
	s.bridge.register(outer, c)
	s.engine.SetOuter(id, s.token, outer)
	s.engine.SetVolume(id, s.token, l.volume)

	clipsLoaded.Inc()
	clipLoadsTotal.WithLabelValues("ok").Inc()
	s.log.Debug().Uint64("clip", uint64(id)).Str("path", l.path).Str("device", device.Name).Msg("clip loaded")

	return &Handle[T]{c: c}, nil
}

// Load loads path in ctx with default options and no caller state.
func Load(path string, ctx *Context) (*Handle[struct{}], error) {
	return NewLoader[struct{}](path, ctx).Load()
}
