// Package cache stores composition results and rendered artifacts.
//
// A [Cache] is a flat byte store with per-entry expiry. Three backends are
// provided: [FileCache] for the CLI, [RedisCache] for the server, and
// [NullCache] when caching is disabled. Keys are produced by a [Keyer] so
// that the CLI, server and tests agree on their shape.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with expiring entries.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss,
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend.
	Close() error
}

// Entry lifetimes.
const (
	// TTLResult is how long a composed result stays cached.
	TTLResult = 24 * time.Hour

	// TTLArtifact is how long a rendered artifact stays cached.
	TTLArtifact = 7 * 24 * time.Hour
)
