package cache

import (
	"context"
	"fmt"
	"net"
	"time"

	"go-clinic-booking/config"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const pingTimeout = 5 * time.Second

// NewRedisClient builds a pooled client from cfg and pings it once. Redis
// backs staff sessions and the daily summary mirror.
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(redisOptions(cfg))

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", client.Options().Addr, err)
	}

	logrus.WithFields(logrus.Fields{
		"addr":      client.Options().Addr,
		"db":        cfg.DB,
		"pool_size": client.Options().PoolSize,
	}).Info("Successfully connected to Redis")

	return client, nil
}

// redisOptions leaves zero durations and sizes to go-redis defaults
func redisOptions(cfg config.RedisConfig) *redis.Options {
	return &redis.Options{
		Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
}
