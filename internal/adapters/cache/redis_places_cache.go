package cache

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"moto-route-service/internal/domain"
	"moto-route-service/internal/ports"
)

// Nearby-place density drifts slowly; a day of caching is safe.
const defaultPlacesTTL = 24 * time.Hour

// RedisPlacesCache decorates a PlacesProvider with a Redis cache, keyed
// by rounded coordinates, radius, and keyword. Cache failures degrade to
// the inner provider; they never fail a scoring call.
type RedisPlacesCache struct {
	inner ports.PlacesProvider
	rdb   *redis.Client
	ttl   time.Duration
}

func NewRedisPlacesCache(inner ports.PlacesProvider, rdb *redis.Client) *RedisPlacesCache {
	return &RedisPlacesCache{inner: inner, rdb: rdb, ttl: defaultPlacesTTL}
}

func (c *RedisPlacesCache) CountNearby(ctx context.Context, point domain.LatLng, radiusM int, keyword string) (int, error) {
	key := fmt.Sprintf("places:%s:%d:%s", PointKey(point.Lat, point.Lng), radiusM, keyword)

	if c.rdb != nil {
		val, err := c.rdb.Get(ctx, key).Result()
		if err == nil {
			if n, convErr := strconv.Atoi(val); convErr == nil {
				return n, nil
			}
		} else if err != redis.Nil {
			log.Printf("places cache read key=%q failed: %v", key, err)
		}
	}

	n, err := c.inner.CountNearby(ctx, point, radiusM, keyword)
	if err != nil {
		return 0, err
	}

	if c.rdb != nil {
		if err := c.rdb.Set(ctx, key, strconv.Itoa(n), c.ttl).Err(); err != nil {
			log.Printf("places cache write key=%q failed: %v", key, err)
		}
	}

	return n, nil
}
