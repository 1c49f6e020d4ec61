// Package cache provides the search response cache: a small Store
// interface with a Redis backend for deployments and an in-memory
// backend for development and tests, plus the deterministic key scheme
// shared by all search types.
package cache

import (
	"context"
	"time"
)

// Store is a TTL key-value store for serialized search responses.
// Lookups are exact-key only. Writes are last-writer-wins.
type Store interface {
	// Get returns the cached value and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key for ttl. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys lists keys starting with prefix.
	Keys(ctx context.Context, prefix string) ([]string, error)
}
