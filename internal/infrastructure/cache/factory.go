package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const pingTimeout = 5 * time.Second

// NewRedisClient builds a client from cfg and pings it.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Addr(), err)
	}
	return client, nil
}

// NewClaimStore picks the Redis store when Redis is enabled and reachable.
// An unreachable Redis degrades to the in-memory store with a warning.
func NewClaimStore(ctx context.Context, cfg config.RedisConfig, log *zap.Logger) shared.IdempotencyStore {
	if log == nil {
		log = zap.NewNop()
	}
	if !cfg.Enabled {
		log.Info("Redis disabled, snapshot claims are held in memory")
		return NewMemoryClaimStore(0)
	}

	client, err := NewRedisClient(ctx, cfg)
	if err != nil {
		log.Warn("Redis unavailable, snapshot claims fall back to memory; replicas may generate duplicate snapshots",
			zap.Error(err))
		return NewMemoryClaimStore(0)
	}
	log.Info("Using Redis for snapshot claims", zap.String("addr", cfg.Addr()))
	return NewRedisClaimStore(client, "")
}
