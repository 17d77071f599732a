package cache

import (
	"fmt"
	"time"

	"github.com/storefront/backend/internal/domain/tenant"
	"github.com/storefront/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// PreferenceStoreFactory picks the view-only store backend from configuration
type PreferenceStoreFactory struct {
	redisConfig           config.RedisConfig
	ttl                   time.Duration
	logger                *zap.Logger
	allowInMemoryFallback bool
	connect               func(RedisConfig) (tenant.PreferenceStore, error)
}

// PreferenceStoreFactoryOption configures the factory
type PreferenceStoreFactoryOption func(*PreferenceStoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) PreferenceStoreFactoryOption {
	return func(f *PreferenceStoreFactory) {
		f.logger = logger
	}
}

// WithPreferenceTTL expires idle Redis flags after ttl
func WithPreferenceTTL(ttl time.Duration) PreferenceStoreFactoryOption {
	return func(f *PreferenceStoreFactory) {
		f.ttl = ttl
	}
}

// WithInMemoryFallback controls whether an unreachable Redis degrades to the in-memory store.
// Default is true.
func WithInMemoryFallback(allow bool) PreferenceStoreFactoryOption {
	return func(f *PreferenceStoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewPreferenceStoreFactory creates a new factory
func NewPreferenceStoreFactory(cfg config.RedisConfig, opts ...PreferenceStoreFactoryOption) *PreferenceStoreFactory {
	f := &PreferenceStoreFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
		connect: func(rc RedisConfig) (tenant.PreferenceStore, error) {
			return NewRedisViewOnlyStore(rc)
		},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateStore returns the Redis store when enabled and reachable, otherwise the in-memory store
func (f *PreferenceStoreFactory) CreateStore() (tenant.PreferenceStore, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("Redis disabled, using in-memory view-only store")
		return NewInMemoryViewOnlyStore(), nil
	}

	store, err := f.connect(RedisConfig{
		Addr:      f.redisConfig.Addr(),
		Password:  f.redisConfig.Password,
		DB:        f.redisConfig.DB,
		KeyPrefix: f.redisConfig.KeyPrefix,
		TTL:       f.ttl,
	})
	if err == nil {
		f.logger.Info("Using Redis view-only store", zap.String("addr", f.redisConfig.Addr()))
		return store, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis required for view-only preferences but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory view-only store. "+
		"Preferences will not be shared between instances.",
		zap.Error(err),
	)
	return NewInMemoryViewOnlyStore(), nil
}
