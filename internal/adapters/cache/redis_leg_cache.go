package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"delivery-planning-service/internal/platform/obs"
	"delivery-planning-service/internal/ports"
)

const legKeyPrefix = "leg:"

type cachedLeg struct {
	DistanceMeters  int      `json:"distance_meters"`
	DurationSeconds int      `json:"duration_seconds"`
	Path            []string `json:"path,omitempty"`
}

// RedisLegCache keeps driving legs in Redis with a TTL, so entries age out
// as road conditions change.
type RedisLegCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisLegCache(client *redis.Client, ttl time.Duration) *RedisLegCache {
	return &RedisLegCache{client: client, ttl: ttl}
}

// DialRedis connects and pings the server.
func DialRedis(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}
	return client, nil
}

func legKey(origin, destination string) string {
	return legKeyPrefix + origin + "|" + destination
}

func (c *RedisLegCache) Get(ctx context.Context, origin, destination string) (_ ports.RouteResult, _ bool, err error) {
	defer obs.Time(ctx, "leg.redis.Get")(&err)

	data, err := c.client.Get(ctx, legKey(origin, destination)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ports.RouteResult{}, false, nil
	}
	if err != nil {
		return ports.RouteResult{}, false, fmt.Errorf("redis get leg: %w", err)
	}

	var leg cachedLeg
	if err := json.Unmarshal(data, &leg); err != nil {
		return ports.RouteResult{}, false, fmt.Errorf("unmarshal cached leg: %w", err)
	}

	return ports.RouteResult{
		DistanceResult: ports.DistanceResult{DistanceMeters: leg.DistanceMeters, DurationSeconds: leg.DurationSeconds},
		Path:           leg.Path,
	}, true, nil
}

func (c *RedisLegCache) Put(ctx context.Context, origin, destination string, r ports.RouteResult) error {
	data, err := json.Marshal(cachedLeg{
		DistanceMeters:  r.DistanceMeters,
		DurationSeconds: r.DurationSeconds,
		Path:            r.Path,
	})
	if err != nil {
		return fmt.Errorf("marshal cached leg: %w", err)
	}

	if err := c.client.Set(ctx, legKey(origin, destination), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set leg: %w", err)
	}
	return nil
}
