// Package dedupe tracks which attendee identifiers have already been
// checked in during a session.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

// Tracker records verified identifiers for the lifetime of a session.
// Entries are never evicted; only Reset clears them.
type Tracker interface {
	// Contains reports whether id has already been recorded.
	Contains(ctx context.Context, id string) bool

	// SeenAndRecord atomically checks if id was seen and records it if not.
	// Returns true if id was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, id string) bool

	// Reset forgets every recorded identifier.
	Reset(ctx context.Context)

	Size() int64
}

// inMemoryTracker implements Tracker with a plain set guarded by a mutex.
type inMemoryTracker struct {
	mu           sync.RWMutex
	seen         map[string]struct{}
	capacityHint int
	size         atomic.Int64
}

// NewInMemoryTracker creates an empty tracker.
func NewInMemoryTracker(opts ...Option) Tracker {
	t := &inMemoryTracker{}

	for _, opt := range opts {
		opt(t)
	}

	t.seen = make(map[string]struct{}, t.capacityHint)

	return t
}

func (t *inMemoryTracker) Contains(_ context.Context, id string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	_, ok := t.seen[id]
	return ok
}

func (t *inMemoryTracker) SeenAndRecord(_ context.Context, id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.seen[id]; exists {
		return true
	}

	t.seen[id] = struct{}{}
	t.size.Add(1)
	return false
}

func (t *inMemoryTracker) Reset(_ context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.seen = make(map[string]struct{}, t.capacityHint)
	t.size.Store(0)
}

// Size returns the number of recorded identifiers.
func (t *inMemoryTracker) Size() int64 {
	return t.size.Load()
}
