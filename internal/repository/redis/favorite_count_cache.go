package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/njprem/storefront/internal/repository/ports"
)

type Config struct {
	Addr     string
	Password string
	DB       int
}

// New creates a client and verifies the connection.
func New(ctx context.Context, cfg Config) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

type FavoriteCountCache struct {
	client goredis.Cmdable
	prefix string
}

func NewFavoriteCountCache(client goredis.Cmdable) *FavoriteCountCache {
	return &FavoriteCountCache{client: client, prefix: "storefront:favorites:count:"}
}

func (c *FavoriteCountCache) key(productID int64) string {
	return c.prefix + strconv.FormatInt(productID, 10)
}

func (c *FavoriteCountCache) Get(ctx context.Context, productID int64) (int64, bool, error) {
	count, err := c.client.Get(ctx, c.key(productID)).Int64()
	if errors.Is(err, goredis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return count, true, nil
}

func (c *FavoriteCountCache) Set(ctx context.Context, productID int64, count int64, ttl time.Duration) error {
	return c.client.Set(ctx, c.key(productID), count, ttl).Err()
}

func (c *FavoriteCountCache) Invalidate(ctx context.Context, productID int64) error {
	return c.client.Del(ctx, c.key(productID)).Err()
}

var _ ports.FavoriteCountCache = (*FavoriteCountCache)(nil)
