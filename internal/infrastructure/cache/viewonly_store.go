// Package cache holds the per-device view-only preference stores.
package cache

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/storefront/backend/internal/domain/tenant"
)

const viewOnlyKeySpace = "viewonly:"

// RedisViewOnlyStore shares the view-only flag across every instance serving the device.
// Keys expire after ttl without a read, matching the lifetime of the device cookie.
type RedisViewOnlyStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
	// TTL is the idle expiry of a flag; 0 keeps flags forever
	TTL time.Duration
}

// NewRedisViewOnlyStore connects to Redis and verifies the connection
func NewRedisViewOnlyStore(cfg RedisConfig) (*RedisViewOnlyStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisViewOnlyStoreWithClient(client, cfg.KeyPrefix, cfg.TTL), nil
}

// NewRedisViewOnlyStoreWithClient wraps an existing client
func NewRedisViewOnlyStoreWithClient(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisViewOnlyStore {
	return &RedisViewOnlyStore{
		client:    client,
		keyPrefix: keyPrefix + viewOnlyKeySpace,
		ttl:       ttl,
	}
}

// ViewOnly returns false for devices that never toggled. A hit slides the expiry.
func (s *RedisViewOnlyStore) ViewOnly(ctx context.Context, deviceID string) (bool, error) {
	key := s.keyPrefix + deviceID
	var val string
	var err error
	if s.ttl > 0 {
		val, err = s.client.GetEx(ctx, key, s.ttl).Result()
	} else {
		val, err = s.client.Get(ctx, key).Result()
	}
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read view-only flag: %w", err)
	}
	enabled, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("corrupt view-only flag %q: %w", val, err)
	}
	return enabled, nil
}

// SetViewOnly stores the flag. Disabling deletes the key.
func (s *RedisViewOnlyStore) SetViewOnly(ctx context.Context, deviceID string, enabled bool) error {
	key := s.keyPrefix + deviceID
	var err error
	if enabled {
		err = s.client.Set(ctx, key, strconv.FormatBool(true), s.ttl).Err()
	} else {
		err = s.client.Del(ctx, key).Err()
	}
	if err != nil {
		return fmt.Errorf("failed to store view-only flag: %w", err)
	}
	return nil
}

// Ping checks Redis reachability
func (s *RedisViewOnlyStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis client
func (s *RedisViewOnlyStore) Close() error {
	return s.client.Close()
}

// InMemoryViewOnlyStore keeps flags in process memory.
// State is lost on restart and is not shared between instances.
type InMemoryViewOnlyStore struct {
	mu    sync.RWMutex
	flags map[string]bool
}

// NewInMemoryViewOnlyStore creates an empty store
func NewInMemoryViewOnlyStore() *InMemoryViewOnlyStore {
	return &InMemoryViewOnlyStore{flags: make(map[string]bool)}
}

// ViewOnly implements tenant.PreferenceStore
func (s *InMemoryViewOnlyStore) ViewOnly(_ context.Context, deviceID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.flags[deviceID], nil
}

// SetViewOnly implements tenant.PreferenceStore
func (s *InMemoryViewOnlyStore) SetViewOnly(_ context.Context, deviceID string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if enabled {
		s.flags[deviceID] = true
	} else {
		delete(s.flags, deviceID)
	}
	return nil
}

// Ping always succeeds
func (s *InMemoryViewOnlyStore) Ping(context.Context) error { return nil }

// Close is a no-op
func (s *InMemoryViewOnlyStore) Close() error { return nil }

// Len returns how many devices have view-only enabled
func (s *InMemoryViewOnlyStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.flags)
}

var (
	_ tenant.PreferenceStore = (*RedisViewOnlyStore)(nil)
	_ tenant.PreferenceStore = (*InMemoryViewOnlyStore)(nil)
)
