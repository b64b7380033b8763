// Package cache defines the compatibility score cache interface and its
// in-memory and Redis implementations.
package cache

import (
	"context"

	"github.com/preset-app/matchmaking/internal/domain/compat"
)

// Store holds memoized compatibility results keyed by pair key
// ("{profileID}-{gigID}"). Entries never expire unless the
// implementation is configured with a TTL; staleness is resolved by
// explicit invalidation.
type Store interface {
	// Get returns the cached result for key.
	// Returns ErrNotFound when the pair has never been scored.
	Get(ctx context.Context, key string) (compat.Data, error)

	// Set stores the result for key, overwriting any previous entry.
	Set(ctx context.Context, key string, data compat.Data) error

	// Invalidate removes a single entry. Removing an absent key is not
	// an error.
	Invalidate(ctx context.Context, key string) error

	// Clear removes every entry.
	Clear(ctx context.Context) error

	// Len returns the number of cached entries.
	Len(ctx context.Context) (int, error)
}
