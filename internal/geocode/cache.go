package geocode

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cached wraps a Geocoder with a Redis read-through cache. Service
// errors are never cached; empty forward result lists are, so repeated
// misses for the same address don't hammer the upstream.
type Cached struct {
	next  Geocoder
	redis *redis.Client
	ttl   time.Duration
}

func NewCached(next Geocoder, redisClient *redis.Client, ttl time.Duration) *Cached {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Cached{next: next, redis: redisClient, ttl: ttl}
}

func (c *Cached) Forward(ctx context.Context, address string) ([]Result, error) {
	key := "geocode:fwd:" + address
	if c.redis != nil {
		if raw, err := c.redis.Get(ctx, key).Result(); err == nil {
			var cached []Result
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return cached, nil
			}
		}
	}

	results, err := c.next.Forward(ctx, address)
	if err != nil {
		return nil, err
	}
	if c.redis != nil {
		if raw, err := json.Marshal(results); err == nil {
			_ = c.redis.Set(ctx, key, raw, c.ttl).Err()
		}
	}
	return results, nil
}

func (c *Cached) Reverse(ctx context.Context, lat, lng float64) (string, error) {
	key := "geocode:rev:" +
		strconv.FormatFloat(lat, 'f', 6, 64) + "," +
		strconv.FormatFloat(lng, 'f', 6, 64)
	if c.redis != nil {
		if addr, err := c.redis.Get(ctx, key).Result(); err == nil && addr != "" {
			return addr, nil
		}
	}

	addr, err := c.next.Reverse(ctx, lat, lng)
	if err != nil {
		return "", err
	}
	if c.redis != nil && addr != "" {
		_ = c.redis.Set(ctx, key, addr, c.ttl).Err()
	}
	return addr, nil
}
