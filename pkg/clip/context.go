// ABOUTME: Shared, reference-counted native playback context
// ABOUTME: The last Close of a context and all its dependents closes the native session
package clip

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/Resonate-Protocol/clipdeck/pkg/engine"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds context configuration
type Config struct {
	// Engine is the native engine backing the context (required)
	Engine engine.Engine

	// IDs allocates clip ids (default: one allocator shared by the process)
	IDs *IDAllocator

	// Logger is used for lifecycle events (default: global zerolog logger)
	Logger *zerolog.Logger
}

// session is the state shared by every reference to one native session.
type session struct {
	id     uuid.UUID
	engine engine.Engine
	token  engine.Session
	ids    *IDAllocator
	bridge *bridge
	log    zerolog.Logger
	refs   atomic.Int64
}

func (s *session) retain() {
	s.refs.Add(1)
}

func (s *session) release() {
	switch n := s.refs.Add(-1); {
	case n == 0:
		s.engine.CloseContext(s.token)
		contextsOpen.Dec()
		s.log.Debug().Msg("native session closed")
	case n < 0:
		panic("clip: session released more times than retained")
	}
}

// Context is one reference to an open native session. Clone hands out
// further references; each must be closed. Clips and device lists hold
// their own references, so the session stays open until they are closed too.
type Context struct {
	s      *session
	closed atomic.Bool
}

// Open opens a native session.
func Open(config Config) (*Context, error) {
	if config.Engine == nil {
		return nil, errors.New("clip: Config.Engine is required")
	}
	if config.IDs == nil {
		config.IDs = sharedIDs
	}

	logger := log.Logger
	if config.Logger != nil {
		logger = *config.Logger
	}

	id := uuid.New()
	s := &session{
		id:     id,
		engine: config.Engine,
		ids:    config.IDs,
		log:    logger.With().Str("component", "clip").Str("session", id.String()).Logger(),
	}
	s.bridge = newBridge(s.log)

	token, err := config.Engine.OpenContext(s.bridge.dispatch)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to open native session")
		return nil, fmt.Errorf("%w: %w", ErrContext, err)
	}
	s.token = token
	s.refs.Store(1)
	contextsOpen.Inc()
	s.log.Debug().Uint64("token", uint64(token)).Msg("native session opened")

	return &Context{s: s}, nil
}

// ID returns the identifier used to correlate this session in logs.
func (c *Context) ID() uuid.UUID {
	return c.s.id
}

// Clone returns a new reference to the same session.
func (c *Context) Clone() *Context {
	if c.closed.Load() {
		panic("clip: Clone of closed Context")
	}
	c.s.retain()
	return &Context{s: c.s}
}

// Close drops this reference. Calling Close more than once returns ErrClosed.
func (c *Context) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	c.s.release()
	return nil
}

// acquire returns the session with one extra reference held for a dependent.
func (c *Context) acquire() (*session, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: nil Context", ErrClosed)
	}
	if c.closed.Load() {
		return nil, ErrClosed
	}
	c.s.retain()
	return c.s, nil
}
