package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "meetbridge:oauth_state:"

// RedisStore keeps states in Redis so every replica can validate a callback.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects lazily to the Redis server at addr.
func NewRedisStore(addr, password string, db int) *RedisStore {
	return NewRedisStoreWithClient(redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}))
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Ping checks connectivity.
func (r *RedisStore) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	return nil
}

// Save stores state with a Redis expiry of ttl.
func (r *RedisStore) Save(ctx context.Context, state string, ttl time.Duration) error {
	if state == "" {
		return ErrEmptyState
	}
	if err := r.client.Set(ctx, redisKeyPrefix+state, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to save oauth state: %w", err)
	}
	return nil
}

// Consume deletes state with GETDEL so two concurrent callbacks cannot both succeed.
func (r *RedisStore) Consume(ctx context.Context, state string) (bool, error) {
	if state == "" {
		return false, nil
	}

	err := r.client.GetDel(ctx, redisKeyPrefix+state).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to consume oauth state: %w", err)
	}
	return true, nil
}

// Close closes the underlying client.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
