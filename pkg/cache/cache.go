// Package cache stores computed layout payloads.
//
// The layout engine is deterministic, so a payload is fully described by the
// input document and the options that shaped it. [Keyer] turns those into a
// key; a [Cache] backend stores the encoded payload under it.
//
// # Backends
//
//   - [FileCache]: one file per entry under a directory (CLI default)
//   - [RedisCache]: a shared Redis instance (server deployments)
//   - [MongoCache]: a MongoDB collection with a TTL index
//   - [NullCache]: caching disabled
//
// [Open] selects a backend from a URL-like string.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with expiry. Implementations are
// safe for concurrent use.
type Cache interface {
	// Get returns the stored bytes and true, or false on a miss. Expired
	// entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend connections.
	Close() error
}

// TTLs for cached artifacts.
const (
	TTLLayout = 7 * 24 * time.Hour
	TTLDOT    = 7 * 24 * time.Hour
)
