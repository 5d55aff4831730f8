// ABOUTME: Clip identifier allocation
// ABOUTME: Monotonic, never-reused ids shared by every context that uses the same allocator
package clip

import (
	"sync/atomic"

	"github.com/Resonate-Protocol/clipdeck/pkg/engine"
)

// IDAllocator hands out clip ids. Ids are never reused.
type IDAllocator struct {
	next atomic.Uint64
}

// NewIDAllocator returns an allocator whose first id is 0.
func NewIDAllocator() *IDAllocator {
	return &IDAllocator{}
}

// Next returns a fresh id. Safe for concurrent use.
func (a *IDAllocator) Next() engine.ClipID {
	return engine.ClipID(a.next.Add(1) - 1)
}

// Peek returns the id the next call to Next will return.
func (a *IDAllocator) Peek() engine.ClipID {
	return engine.ClipID(a.next.Load())
}

// sharedIDs is used by contexts opened without an explicit allocator.
var sharedIDs = NewIDAllocator()
