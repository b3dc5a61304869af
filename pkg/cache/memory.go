package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/shashiranjanraj/orderdesk/pkg/metrics"
)

type memoryItem struct {
	data    []byte
	expires time.Time
}

// MemoryStore is a process-local Store. Values go through JSON so callers
// see the same copy semantics as with Redis.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]memoryItem
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: map[string]memoryItem{}, now: time.Now}
}

func (s *MemoryStore) Get(_ context.Context, key string, dest any) bool {
	s.mu.RLock()
	item, ok := s.items[key]
	s.mu.RUnlock()

	if !ok || (!item.expires.IsZero() && !s.now().Before(item.expires)) {
		metrics.CacheMisses.WithLabelValues("memory").Inc()
		return false
	}
	if err := json.Unmarshal(item.data, dest); err != nil {
		metrics.CacheMisses.WithLabelValues("memory").Inc()
		return false
	}

	metrics.CacheHits.WithLabelValues("memory").Inc()
	return true
}

// Set stores value; ttl <= 0 means no expiry.
func (s *MemoryStore) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: marshal %s: %w", key, err)
	}

	item := memoryItem{data: data}
	if ttl > 0 {
		item.expires = s.now().Add(ttl)
	}

	s.mu.Lock()
	s.items[key] = item
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Del(_ context.Context, keys ...string) error {
	s.mu.Lock()
	for _, k := range keys {
		delete(s.items, k)
	}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Close() error { return nil }
