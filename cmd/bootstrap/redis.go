package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"parking-reservation/internal/handler/middleware"
	"parking-reservation/internal/pkg/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var RedisModule = fx.Module("redis",
	fx.Provide(
		NewRedisClient,
		NewRateLimiter,
	),
)

// NewRedisClient returns nil when REDIS_ADDR is unset.
func NewRedisClient(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (*redis.Client, error) {
	if !cfg.Redis.Enabled() {
		logger.Info("redis disabled; rate limiting is off")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})

	logger.Info("redis connected", "addr", cfg.Redis.Addr)
	return client, nil
}

func NewRateLimiter(cfg config.Config, client *redis.Client) middleware.RateLimiter {
	if client == nil || !cfg.RateLimit.Enabled {
		return nil
	}
	return middleware.NewRedisTokenBucket(client, cfg.RateLimit)
}
