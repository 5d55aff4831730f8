// ABOUTME: Shared helpers for clip tests
// ABOUTME: Builds contexts over the scripted engine and writes placeholder clip files
package clip

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Resonate-Protocol/clipdeck/internal/enginetest"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func openTest(t *testing.T, eng *enginetest.Engine) (*Context, *IDAllocator) {
	t.Helper()
	ids := NewIDAllocator()
	nop := zerolog.Nop()
	ctx, err := Open(Config{Engine: eng, IDs: ids, Logger: &nop})
	require.NoError(t, err)
	return ctx, ids
}

func writeClip(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("not really audio"), 0o644))
	return path
}
