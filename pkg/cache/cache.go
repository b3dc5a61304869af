// Package cache stores JSON-encoded values with a TTL, in Redis or in
// process memory.
package cache

import (
	"context"
	"time"

	"github.com/shashiranjanraj/orderdesk/pkg/logger"
)

// Store is implemented by RedisStore and MemoryStore.
type Store interface {
	// Get unmarshals the cached value into dest. It reports false on a miss
	// or on any backend error.
	Get(ctx context.Context, key string, dest any) bool
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Close() error
}

// Connect returns a RedisStore when addr is set and reachable, otherwise a
// MemoryStore.
func Connect(ctx context.Context, addr, password string) Store {
	if addr == "" {
		return NewMemoryStore()
	}

	store, err := NewRedisStore(ctx, addr, password)
	if err != nil {
		logger.Warn("cache: redis unavailable, using in-memory cache", "addr", addr, "error", err)
		return NewMemoryStore()
	}
	return store
}
