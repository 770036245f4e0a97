// Package cache stores computed layouts and rendered artifacts so repeated
// requests for the same graph snapshot skip the layout pipeline.
//
// # Backends
//
//   - [NullCache]: stores nothing, used when caching is disabled
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [RedisCache]: shared cache for server deployments
//   - [MongoCache]: shared cache with a TTL index, for deployments that
//     already run MongoDB
//
// [Open] builds the backend named in [Options], retrying transient connection
// failures with [RetryWithBackoff].
//
// # Keys
//
// A [Keyer] derives keys from a content hash of the graph plus every option
// that affects the output, so a key never maps to a stale layout. Wrap it
// with [NewScopedKeyer] to give each project its own namespace.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
//
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the stored value and true, or nil and false on a miss.
	// Expired entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero or less never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	// Clear removes all entries and reports how many were removed.
	Clear(ctx context.Context) (int, error)
}

// Entry lifetimes.
const (
	// TTLLayout is how long a computed layout stays cached. Layouts are pure
	// functions of their key, so the limit only bounds storage.
	TTLLayout = 7 * 24 * time.Hour

	// TTLArtifact is how long rendered DOT/SVG output stays cached.
	TTLArtifact = 24 * time.Hour
)
