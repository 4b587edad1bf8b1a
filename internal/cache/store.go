// Package cache defines a response cache for API GET bodies.
package cache

import (
	"context"
	"errors"
	"time"
)

// Common errors.
var (
	ErrMiss        = errors.New("cache miss")
	ErrStoreClosed = errors.New("cache store is closed")
)

// Store caches response bodies keyed by request URL.
type Store interface {
	// Get returns a non-expired body for key, or ErrMiss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores body under key for ttl.
	Put(ctx context.Context, key string, body []byte, ttl time.Duration) error

	// Prune removes expired entries and returns how many were removed.
	Prune(ctx context.Context) (int64, error)

	// Stats returns cache statistics.
	Stats(ctx context.Context) (Stats, error)

	// Clear removes all entries and resets counters.
	Clear(ctx context.Context) error

	// Close closes the store.
	Close() error
}

// Stats provides statistics about the response cache.
type Stats struct {
	TotalEntries int64   `json:"total_entries"`
	TotalSize    int64   `json:"total_size"`
	HitCount     int64   `json:"hit_count"`
	MissCount    int64   `json:"miss_count"`
	HitRate      float64 `json:"hit_rate"`
}
