package redisclient

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client wraps the redis connection used for shared rate-limit counters.
type Client struct {
	redisdb *redis.Client
}

type Config struct {
	Addr     string
	Password string
	DB       int
}

func New(cfg Config) *Client {
	redisdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	return &Client{redisdb: redisdb}
}

func (c *Client) Ping(ctx context.Context) error {
	return c.redisdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.redisdb.Close()
}

// Incr bumps a fixed-window counter and reports how long until the window
// resets. INCR plus EXPIRE on the first hit; the count lives in redis so
// every instance sees the same window.
func (c *Client) Incr(ctx context.Context, key string, window time.Duration) (int, time.Duration, error) {
	rkey := "ratelimit:" + key

	count, err := c.redisdb.Incr(ctx, rkey).Result()

	if err != nil {
		return 0, 0, err
	}

	if count == 1 {
		if err := c.redisdb.Expire(ctx, rkey, window).Err(); err != nil {
			return 0, 0, err
		}

		return int(count), window, nil
	}

	ttl, err := c.redisdb.TTL(ctx, rkey).Result()

	if err != nil || ttl < 0 {
		ttl = window
	}

	return int(count), ttl, nil
}
