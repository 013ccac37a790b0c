package state

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Backend types accepted by New.
const (
	TypeMemory = "memory"
	TypeRedis  = "redis"
)

// ErrEmptyState is returned when saving an empty state value.
var ErrEmptyState = errors.New("state must not be empty")

// Store persists single-use OAuth state values.
type Store interface {
	// Save records state for ttl.
	Save(ctx context.Context, state string, ttl time.Duration) error

	// Consume atomically removes state and reports whether it was present and unexpired.
	Consume(ctx context.Context, state string) (bool, error)

	// Close releases background resources.
	Close() error
}

// Config selects and configures a Store backend.
type Config struct {
	// Type is "memory" (default) or "redis".
	Type string

	// RedisAddr is the host:port of the Redis server.
	RedisAddr string

	// RedisPassword is optional.
	RedisPassword string

	// RedisDB is the logical database number.
	RedisDB int

	// CleanupInterval controls how often the memory store drops expired states.
	CleanupInterval time.Duration
}

// New builds the Store described by cfg. A Redis store is pinged before it is returned.
func New(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Type {
	case "", TypeMemory:
		return NewMemoryStore(cfg.CleanupInterval), nil
	case TypeRedis:
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("redis address is required for the redis state store")
		}
		store := NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown state store type %q, must be one of: memory, redis", cfg.Type)
	}
}
