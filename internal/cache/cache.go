// Package cache keeps validated backend responses for the revalidation window.
package cache

import (
	"context"
	"time"

	"github.com/bilgisen/feedview/internal/config"
)

// Store is a byte cache with per-key expiry
type Store interface {
	// Get returns the value and whether it was found and not yet expired
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Purge drops every key owned by the store
	Purge(ctx context.Context) error
	Close() error
}

// New picks the store for cfg: Redis when REDIS_URL is set, an in-memory
// store when only a revalidation interval is set, and nil when responses are never reused.
func New(cfg *config.Config) (Store, error) {
	switch {
	case cfg.RedisURL != "":
		client, err := NewRedisClient(cfg)
		if err != nil {
			return nil, err
		}
		return client, nil
	case cfg.CacheRevalidate > 0:
		return NewMemoryStore(), nil
	default:
		return nil, nil
	}
}
