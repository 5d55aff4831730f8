// ABOUTME: Tests for context lifecycle
// ABOUTME: Tests open failures, shared ownership and single native close
package clip

import (
	"testing"

	"github.com/Resonate-Protocol/clipdeck/internal/enginetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenRequiresEngine(t *testing.T) {
	_, err := Open(Config{})
	assert.Error(t, err)
}

func TestOpenFailureIsContextError(t *testing.T) {
	eng := enginetest.New()
	eng.FailOpen = true

	ctx, err := Open(Config{Engine: eng})
	assert.Nil(t, ctx)
	assert.ErrorIs(t, err, ErrContext)
	assert.ErrorIs(t, err, enginetest.ErrOpen)
	assert.Empty(t, eng.Sessions())
}

func TestCloseWithoutClips(t *testing.T) {
	eng := enginetest.New()
	ctx, _ := openTest(t, eng)
	token := ctx.s.token

	require.NoError(t, ctx.Close())
	assert.Equal(t, 1, eng.Closes(token))
}

func TestCloseTwiceClosesOnce(t *testing.T) {
	eng := enginetest.New()
	ctx, _ := openTest(t, eng)
	token := ctx.s.token

	require.NoError(t, ctx.Close())
	assert.ErrorIs(t, ctx.Close(), ErrClosed)
	assert.Equal(t, 1, eng.Closes(token))
}

func TestCloneKeepsSessionOpen(t *testing.T) {
	eng := enginetest.New()
	ctx, _ := openTest(t, eng)
	token := ctx.s.token

	clone := ctx.Clone()
	assert.Equal(t, ctx.ID(), clone.ID())

	require.NoError(t, ctx.Close())
	assert.Equal(t, 0, eng.Closes(token))

	require.NoError(t, clone.Close())
	assert.Equal(t, 1, eng.Closes(token))
}

func TestCloneOfClosedContextPanics(t *testing.T) {
	ctx, _ := openTest(t, enginetest.New())
	require.NoError(t, ctx.Close())

	assert.Panics(t, func() { ctx.Clone() })
}

func TestClipsKeepSessionOpen(t *testing.T) {
	eng := enginetest.New()
	ctx, _ := openTest(t, eng)
	token := ctx.s.token

	a, err := Load(writeClip(t, "a.wav"), ctx)
	require.NoError(t, err)
	b, err := Load(writeClip(t, "b.wav"), ctx)
	require.NoError(t, err)

	require.NoError(t, ctx.Close())
	assert.Equal(t, 0, eng.Closes(token))

	require.NoError(t, a.Close())
	assert.Equal(t, 0, eng.Closes(token))

	require.NoError(t, b.Close())
	assert.Equal(t, 1, eng.Closes(token))
	assert.Equal(t, 1, eng.Unloads(token, a.ID()))
	assert.Equal(t, 1, eng.Unloads(token, b.ID()))
}

func TestContextsShareDefaultAllocator(t *testing.T) {
	eng := enginetest.New()

	first, err := Open(Config{Engine: eng})
	require.NoError(t, err)
	defer first.Close()
	second, err := Open(Config{Engine: eng})
	require.NoError(t, err)
	defer second.Close()

	assert.Same(t, first.s.ids, second.s.ids)
	assert.NotEqual(t, first.ID(), second.ID())
}
