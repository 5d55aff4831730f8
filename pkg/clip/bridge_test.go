// ABOUTME: Tests for completion routing
// ABOUTME: Tests registration, lookup of unknown keys and dispatch
package clip

import (
	"testing"

	"github.com/Resonate-Protocol/clipdeck/pkg/engine"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type countingCompleter struct {
	n int
}

func (c *countingCompleter) complete() { c.n++ }

func TestBridgeDispatch(t *testing.T) {
	b := newBridge(zerolog.Nop())
	c := &countingCompleter{}

	b.register(engine.Outer(4), c)
	assert.Equal(t, 1, b.len())

	b.dispatch(engine.Outer(4))
	b.dispatch(engine.Outer(5))
	assert.Equal(t, 1, c.n)

	b.unregister(engine.Outer(4))
	b.dispatch(engine.Outer(4))
	assert.Equal(t, 1, c.n)
	assert.Equal(t, 0, b.len())
}
