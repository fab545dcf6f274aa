package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	appconfig "github.com/NMHx2005/lms-backend-sub006/internal/config"

	"github.com/redis/go-redis/v9"
)

var ErrRedisNotConfigured = errors.New("redis address not configured")

// ConnectRedis opens a client and checks it with PING.
func ConnectRedis(ctx context.Context, cfg appconfig.RedisConfig) (*redis.Client, error) {
	if cfg.Addr == "" {
		return nil, ErrRedisNotConfigured
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return client, nil
}
