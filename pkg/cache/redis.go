package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shashiranjanraj/orderdesk/pkg/metrics"
)

// RedisStore is a Store backed by a go-redis client.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore connects and verifies the connection with a ping.
func NewRedisStore(ctx context.Context, addr, password string) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("cache: redis ping: %w", err)
	}
	return &RedisStore{rdb: rdb}, nil
}

func (s *RedisStore) Get(ctx context.Context, key string, dest any) bool {
	val, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		metrics.CacheMisses.WithLabelValues("redis").Inc()
		return false
	}

	if err := json.Unmarshal(val, dest); err != nil {
		metrics.CacheMisses.WithLabelValues("redis").Inc()
		return false
	}

	metrics.CacheHits.WithLabelValues("redis").Inc()
	return true
}

func (s *RedisStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: marshal %s: %w", key, err)
	}
	return s.rdb.Set(ctx, key, data, ttl).Err()
}

func (s *RedisStore) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.rdb.Del(ctx, keys...).Err()
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
