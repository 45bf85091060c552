package thumbs

import (
	"context"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// RedisCache backs the thumbnail cache with Redis so previews survive
// process restarts and can be shared by multiple instances.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to redisURL and verifies the connection.
func NewRedisCache(redisURL string, ttl time.Duration) (*RedisCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil { return nil, err }
	c := redis.NewClient(opt)
	if err := c.Ping(context.Background()).Err(); err != nil { return nil, err }
	return &RedisCache{client: c, ttl: ttl}, nil
}

func (c *RedisCache) key(key string) string { return "thumb:" + key }

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, data []byte) error {
	return c.client.Set(ctx, c.key(key), data, c.ttl).Err()
}

func (c *RedisCache) Close() error { return c.client.Close() }
