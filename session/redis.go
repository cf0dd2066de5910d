package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisBackend stores the slot as a plain Redis string under prefix:key.
type RedisBackend struct {
	redis  redis.UniversalClient
	prefix string
}

// NewRedisBackend creates a [RedisBackend]. An empty prefix stores keys unprefixed.
func NewRedisBackend(client redis.UniversalClient, prefix string) *RedisBackend {
	return &RedisBackend{
		redis:  client,
		prefix: prefix,
	}
}

func (b *RedisBackend) key(key string) string {
	if b.prefix == "" {
		return key
	}
	return b.prefix + ":" + key
}

// Get implements [Backend].
func (b *RedisBackend) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := b.redis.Get(ctx, b.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// Set implements [Backend]. The key never expires; the backend token enforces its own
// lifetime upstream.
func (b *RedisBackend) Set(ctx context.Context, key string, value []byte) error {
	return b.redis.Set(ctx, b.key(key), value, 0).Err()
}

// Delete implements [Backend]. DEL of a missing key is a no-op.
func (b *RedisBackend) Delete(ctx context.Context, key string) error {
	return b.redis.Del(ctx, b.key(key)).Err()
}

// Ping returns a point-in-time Redis availability check and latency.
func (b *RedisBackend) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	if err := b.redis.Ping(ctx).Err(); err != nil {
		return time.Since(start), err
	}
	return time.Since(start), nil
}
