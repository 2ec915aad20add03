// Package dedupe tracks achievements that already produced a
// notification. When persisting the cache fails, the next cycle diffs
// against a stale baseline and would re-emit the same events; the guard
// suppresses those repeats.
package dedupe

import (
	"context"
	"sync"
)

// Guard records notified achievements keyed by (user id, run id).
type Guard interface {
	// SeenAndRecord atomically checks whether the achievement was
	// already notified and records it if not. Returns true if it was
	// already seen.
	SeenAndRecord(ctx context.Context, userID, runID uint32) bool

	// Unrecord forgets an achievement so it can be notified again.
	// Used when a recorded notification never made it onto the
	// delivery queue.
	Unrecord(ctx context.Context, userID, runID uint32)

	Size() int64
}

// defaultMaxSize keeps several boards' worth of achievements.
const defaultMaxSize = 10_000

// inMemoryGuard implements Guard with a bounded set and FIFO eviction.
// With maxSize <= 0 the set is unbounded.
type inMemoryGuard struct {
	mu      sync.Mutex
	seen    map[uint64]struct{}
	order   []uint64 // insertion ring, only used in bounded mode
	next    int      // ring cursor of the oldest slot once full
	maxSize int
}

// NewInMemoryGuard creates a guard with configuration options.
func NewInMemoryGuard(opts ...Option) Guard {
	g := &inMemoryGuard{
		maxSize: defaultMaxSize,
	}

	for _, opt := range opts {
		opt(g)
	}

	g.seen = make(map[uint64]struct{})
	if g.maxSize > 0 {
		g.order = make([]uint64, 0, g.maxSize)
	}

	return g
}

// key packs the achievement identity into a single map key.
func key(userID, runID uint32) uint64 {
	return uint64(userID)<<32 | uint64(runID)
}

func (g *inMemoryGuard) SeenAndRecord(_ context.Context, userID, runID uint32) bool {
	k := key(userID, runID)

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.seen[k]; ok {
		return true
	}

	if g.maxSize > 0 && len(g.order) >= g.maxSize {
		// Reuse the oldest ring slot. The evicted key may already have
		// been unrecorded; deleting a missing key is harmless.
		delete(g.seen, g.order[g.next])
		g.order[g.next] = k
		g.next = (g.next + 1) % g.maxSize
	} else if g.maxSize > 0 {
		g.order = append(g.order, k)
	}

	g.seen[k] = struct{}{}
	return false
}

func (g *inMemoryGuard) Unrecord(_ context.Context, userID, runID uint32) {
	g.mu.Lock()
	defer g.mu.Unlock()

	// The ring slot stays in place; eviction tolerates keys that are
	// no longer in the set.
	delete(g.seen, key(userID, runID))
}

func (g *inMemoryGuard) Size() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return int64(len(g.seen))
}
