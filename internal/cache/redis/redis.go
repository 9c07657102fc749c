// Package redis stores the aggregation snapshot in Redis so several engine
// instances can share one cached result.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"jobmatch-engine/internal/cache"
	"jobmatch-engine/internal/domain"
)

type Cache struct {
	client *redis.Client
	opts   cache.Options
}

// New parses opts.URL, connects and pings.
func New(ctx context.Context, opts cache.Options) (*Cache, error) {
	ro, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL: %w", err)
	}
	c := NewWithClient(redis.NewClient(ro), opts)
	if err := c.client.Ping(ctx).Err(); err != nil {
		_ = c.client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return c, nil
}

func NewWithClient(client *redis.Client, opts cache.Options) *Cache {
	return &Cache{client: client, opts: opts.WithDefaults()}
}

func (c *Cache) SaveSnapshot(ctx context.Context, s domain.Snapshot) error {
	b, err := cache.Encode(s)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.opts.Key, b, c.opts.TTL).Err()
}

func (c *Cache) LoadSnapshot(ctx context.Context) (domain.Snapshot, error) {
	b, err := c.client.Get(ctx, c.opts.Key).Bytes()
	if errors.Is(err, redis.Nil) {
		return cache.Empty(), nil
	}
	if err != nil {
		return domain.Snapshot{}, err
	}
	return cache.Decode(b)
}

func (c *Cache) Delete(ctx context.Context) error {
	return c.client.Del(ctx, c.opts.Key).Err()
}

func (c *Cache) Close() error {
	return c.client.Close()
}
