// Package dedupe tracks prefetch pair keys so a profile/gig pair is
// warmed at most once per window.
package dedupe

import (
	"context"
	"sync"

	"github.com/preset-app/matchmaking/pkg/metrics"
)

// Deduper records pair keys already submitted for cache warming.
type Deduper interface {
	// SeenAndRecord atomically checks whether key was seen and records
	// it if not. Returns true when key was already seen.
	SeenAndRecord(ctx context.Context, key string) bool

	// Unrecord forgets a key so the pair may be resubmitted. Used when
	// a recorded pair could not be enqueued (queue backpressure).
	Unrecord(ctx context.Context, key string)

	Size() int
}

// inMemoryDeduper keeps pair keys in a map with FIFO eviction backed by
// a ring buffer. maxSize <= 0 disables eviction.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	ring    []string
	next    int
	maxSize int
}

// NewInMemory creates a bounded in-memory deduper. The default capacity
// suits a single prefetch window; override it with WithMaxSize.
func NewInMemory(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: 50000,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]struct{})
	if d.maxSize > 0 {
		d.ring = make([]string, d.maxSize)
	}
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[key]; ok {
		metrics.RecordPrefetchDuplicate()
		return true
	}

	if d.maxSize > 0 {
		if evicted := d.ring[d.next]; evicted != "" {
			delete(d.seen, evicted)
		}
		d.ring[d.next] = key
		d.next = (d.next + 1) % d.maxSize
	}
	d.seen[key] = struct{}{}
	return false
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[key]; !ok {
		return
	}
	delete(d.seen, key)
	for i, k := range d.ring {
		if k == key {
			d.ring[i] = ""
			break
		}
	}
}

func (d *inMemoryDeduper) Size() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}
