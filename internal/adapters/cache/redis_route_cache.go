package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mission-route-service/internal/platform/obs"
	"mission-route-service/internal/ports"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRouteCache keeps routing results in Redis with a fixed TTL so that
// several service instances share one cache.
type RedisRouteCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisRouteCache(client *redis.Client, ttl time.Duration) *RedisRouteCache {
	return &RedisRouteCache{client: client, ttl: ttl}
}

// ConnectRedis parses a redis:// URL and verifies the server answers.
func ConnectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("connect redis: parse url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis: ping: %w", err)
	}

	return client, nil
}

type redisRouteEntry struct {
	Points          [][2]float64 `json:"p"`
	DistanceMeters  int          `json:"m"`
	DurationSeconds int          `json:"s"`
}

func (c *RedisRouteCache) Get(
	ctx context.Context,
	key string,
) (_ ports.RouteResult, ok bool, err error) {
	defer obs.Time(ctx, "route.redis.Get")(&err)

	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ports.RouteResult{}, false, nil
	}
	if err != nil {
		return ports.RouteResult{}, false, fmt.Errorf("get redis route cache: %w", err)
	}

	var entry redisRouteEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return ports.RouteResult{}, false, fmt.Errorf("get redis route cache: decode: %w", err)
	}

	return entry.toResult(), true, nil
}

func (c *RedisRouteCache) Put(ctx context.Context, key string, result ports.RouteResult) error {
	payload, err := json.Marshal(newRedisRouteEntry(result))
	if err != nil {
		return fmt.Errorf("put redis route cache: encode: %w", err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("put redis route cache key=%q: %w", key, err)
	}

	return nil
}
