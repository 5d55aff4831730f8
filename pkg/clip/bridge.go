// ABOUTME: Routes native end-of-clip notifications to live clips
// ABOUTME: Table of registered clips keyed by the integer handed to the engine
package clip

import (
	"sync"

	"github.com/Resonate-Protocol/clipdeck/pkg/engine"
	"github.com/rs/zerolog"
)

// completer is a live clip as seen by the bridge.
type completer interface {
	complete()
}

type bridge struct {
	mu    sync.RWMutex
	clips map[engine.Outer]completer
	log   zerolog.Logger
}

func newBridge(logger zerolog.Logger) *bridge {
	return &bridge{
		clips: make(map[engine.Outer]completer),
		log:   logger,
	}
}

func (b *bridge) register(outer engine.Outer, c completer) {
	b.mu.Lock()
	b.clips[outer] = c
	b.mu.Unlock()
}

func (b *bridge) unregister(outer engine.Outer) {
	b.mu.Lock()
	delete(b.clips, outer)
	b.mu.Unlock()
}

func (b *bridge) len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clips)
}

// dispatch is the engine.CompletionFunc for a session. It runs on an engine
// goroutine. The table lock is not held while the clip callback runs, so
// callbacks may close handles.
func (b *bridge) dispatch(outer engine.Outer) {
	b.mu.RLock()
	c, ok := b.clips[outer]
	b.mu.RUnlock()

	if !ok {
		completionsOrphanedTotal.Inc()
		b.log.Debug().Uint64("outer", uint64(outer)).Msg("completion for unknown clip ignored")
		return
	}
	c.complete()
}
