// Package backend selects and opens the storage.KV named by configuration.
package backend

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/neonsurge/internal/config"
	"github.com/cory-johannsen/neonsurge/internal/observability"
	"github.com/cory-johannsen/neonsurge/internal/storage"
	"github.com/cory-johannsen/neonsurge/internal/storage/memory"
	"github.com/cory-johannsen/neonsurge/internal/storage/postgres"
	"github.com/cory-johannsen/neonsurge/internal/storage/redis"
)

const healthTimeout = 5 * time.Second

// Open connects to the backend named by cfg.Persistence.Backend.
//
// Precondition: cfg must have passed Validate.
// Postcondition: Returns a ready KV and a close func that releases it, or a non-nil error.
func Open(ctx context.Context, cfg config.Config, logger *zap.Logger) (storage.KV, func(), error) {
	logger = observability.OrNop(logger)
	switch cfg.Persistence.Backend {
	case "memory":
		logger.Info("persistence backend", zap.String("backend", "memory"))
		return memory.New(), func() {}, nil
	case "redis":
		client, err := redis.NewClient(cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		store := redis.New(client, cfg.Redis.KeyPrefix)
		if err := store.Health(ctx, healthTimeout); err != nil {
			_ = store.Close()
			return nil, nil, fmt.Errorf("redis health check: %w", err)
		}
		logger.Info("persistence backend",
			zap.String("backend", "redis"),
			zap.String("addr", cfg.Redis.Addr),
		)
		return store, func() { _ = store.Close() }, nil
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("persistence backend",
			zap.String("backend", "postgres"),
			zap.String("host", cfg.Database.Host),
			zap.Int("port", cfg.Database.Port),
		)
		return postgres.NewNumberRepository(pool.DB()), pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown persistence backend %q", cfg.Persistence.Backend)
	}
}
