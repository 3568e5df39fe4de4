// Package cache stores render plans and rendered artifacts keyed by the
// content they were built from.
//
// Four backends share the [Cache] interface:
//
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [RedisCache]: go-redis, for the HTTP server running several replicas
//   - [MongoCache]: a MongoDB collection with a TTL index
//   - [NullCache]: stores nothing, used by --no-cache
//
// Keys are produced by a [Keyer] so every backend sees the same key space.
package cache

import (
	"context"
	"time"
)

// Default time-to-live values.
const (
	PlanTTL     = 7 * 24 * time.Hour
	ArtifactTTL = 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiry.
//
// Get reports a miss as (nil, false, nil); errors are reserved for backend
// failures. A ttl of zero means the entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by backends that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}

// Clear removes all entries from c if the backend supports it.
func Clear(ctx context.Context, c Cache) (int, error) {
	cl, ok := c.(Clearer)
	if !ok {
		return 0, nil
	}
	return cl.Clear(ctx)
}
