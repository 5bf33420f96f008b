package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/derintolu/frs-lead-pages-sub002/internal/config"
	"github.com/derintolu/frs-lead-pages-sub002/internal/observability"

	"github.com/redis/go-redis/v9"
)

// Client wraps the Redis client with observability. A nil *Client is valid
// and means Redis is disabled; every method handles it.
type Client struct {
	client *redis.Client
	logger *observability.Logger
}

// NewClient creates a new Redis client, or nil when Redis is disabled.
func NewClient(cfg config.RedisConfig, logger *observability.Logger) (*Client, error) {
	if !cfg.Enabled {
		logger.Info(context.Background(), "redis is disabled, skipping client initialization")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info(observability.WithFields(ctx,
		observability.Field{Key: "addr", Value: cfg.Addr},
		observability.Field{Key: "db", Value: cfg.DB}),
		"successfully connected to redis")

	return &Client{
		client: client,
		logger: logger,
	}, nil
}

// IsEnabled returns whether Redis is enabled
func (c *Client) IsEnabled() bool {
	return c != nil && c.client != nil
}

// IncrWindow increments a fixed-window counter and returns the new count. The
// expiry is set only when the key is created, so the window is anchored to
// the first hit.
func (c *Client) IncrWindow(ctx context.Context, key string, window time.Duration) (int64, error) {
	if !c.IsEnabled() {
		return 0, fmt.Errorf("redis client not initialized")
	}

	pipe := c.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to increment window counter: %w", err)
	}
	return incr.Val(), nil
}

// Close closes the Redis connection
func (c *Client) Close() error {
	if !c.IsEnabled() {
		return nil
	}
	return c.client.Close()
}
