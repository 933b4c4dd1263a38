package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"storefront-client/config"
)

// Keys used by the state engines.
const (
	KeyAuthToken = "authToken"
	KeyUserData  = "userData"
	KeyCart      = "cart"
)

// Store is the persistent key-value adapter backing the state engines.
// Get returns (nil, nil) when the key is absent.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open builds the store backend selected by the configuration.
func Open(cfg config.Config, logger *zap.Logger) (Store, error) {
	switch cfg.StorageBackend {
	case config.BackendSQLite:
		return OpenSQLite(cfg.StoragePath)
	case config.BackendRedis:
		client, err := NewRedisClient(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		logger.Info("Connected to Redis", zap.String("url", cfg.RedisURL))
		return NewRedisStore(client, cfg.StorageTTL), nil
	case config.BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
