// Package cache provides byte-level caching for mining results and rendered
// trees.
//
// Three backends implement [Cache]:
//   - [FileCache] stores entries as JSON files, used by the CLI
//   - [RedisCache] stores entries in Redis, used by the API server
//   - [NullCache] stores nothing, used with --no-cache
//
// Keys are built by a [Keyer] from the hash of the raw dataset bytes and every
// option that changes the cached value, so a hit is always safe to reuse.
package cache

import (
	"context"
	"time"
)

// Default time-to-live values.
const (
	// TTLResult applies to mined itemsets.
	TTLResult = 24 * time.Hour

	// TTLTree applies to rendered FP-tree artifacts.
	TTLTree = 7 * 24 * time.Hour
)

// Cache stores opaque byte values under string keys.
//
// Get reports a miss with ok == false and a nil error. Implementations must be
// safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
