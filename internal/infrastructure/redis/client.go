package redis

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"

	config "github.com/avatarctic/status-service/configs"
)

// NewRedisClient creates a Redis client, switching to a cluster client when
// cluster addresses are configured. It does not dial.
func NewRedisClient(cfg *config.RedisConfig) redis.UniversalClient {
	if len(cfg.ClusterAddrs) > 0 {
		return NewRedisClusterClient(cfg)
	}
	return redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolTimeout:  cfg.PoolTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	})
}

// NewRedisClusterClient creates a new Redis cluster client
func NewRedisClusterClient(cfg *config.RedisConfig) *redis.ClusterClient {
	return redis.NewClusterClient(&redis.ClusterOptions{
		Addrs:        cfg.ClusterAddrs,
		Password:     cfg.Password,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolTimeout:  cfg.PoolTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	})
}

// Ping tests the connection.
func Ping(ctx context.Context, client redis.UniversalClient) error {
	if _, err := client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return nil
}
