package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"freight-route-service/internal/domain"
	"freight-route-service/internal/platform/obs"
	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/redis/go-redis/v9"
)

const DefaultRouteTTL = 90 * time.Minute

// Connect to Redis and verify the connection with a ping.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connect %s: %w", addr, err)
	}
	return client, nil
}

// Redis-backed implementation of the RouteCache port.
// Routes are stored as JSON strings and expire after the configured TTL.
type RedisRouteCache struct {
	cache *cache.Cache[string]
}

func NewRedisRouteCache(client *redis.Client, ttl time.Duration) *RedisRouteCache {
	if ttl <= 0 {
		ttl = DefaultRouteTTL
	}
	redisStore := redisstore.NewRedis(client, store.WithExpiration(ttl))

	return &RedisRouteCache{cache: cache.New[string](redisStore)}
}

type cachedSegment struct {
	From        string  `json:"from"`
	To          string  `json:"to"`
	Mode        string  `json:"mode"`
	VoyageID    string  `json:"voyage,omitempty"`
	ArrivalDate string  `json:"arrival_date,omitempty"`
	Hours       float64 `json:"hours"`
}

type cachedRoute struct {
	Source     string          `json:"source"`
	Target     string          `json:"target"`
	TotalHours float64         `json:"total_hours"`
	Segments   []cachedSegment `json:"segments"`
}

// Return the cached route for key and whether it was present.
func (c *RedisRouteCache) Get(ctx context.Context, key string) (_ *domain.Route, _ bool, err error) {
	defer obs.Time(ctx, "route.cache.Get")(&err)

	raw, err := c.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, store.NotFound{}) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get route cache %q: %w", key, err)
	}

	var cr cachedRoute
	if err := json.Unmarshal([]byte(raw), &cr); err != nil {
		return nil, false, fmt.Errorf("get route cache %q: decode: %w", key, err)
	}

	route := &domain.Route{
		Source:     domain.NodeID(cr.Source),
		Target:     domain.NodeID(cr.Target),
		TotalHours: cr.TotalHours,
		Segments:   make([]domain.RouteSegment, 0, len(cr.Segments)),
	}
	for _, s := range cr.Segments {
		route.Segments = append(route.Segments, domain.RouteSegment{
			From:        domain.NodeID(s.From),
			To:          domain.NodeID(s.To),
			Mode:        domain.Mode(s.Mode),
			VoyageID:    s.VoyageID,
			ArrivalDate: s.ArrivalDate,
			Hours:       s.Hours,
		})
	}

	return route, true, nil
}

// Store a solved route under key.
func (c *RedisRouteCache) Set(ctx context.Context, key string, route *domain.Route) error {
	if route == nil {
		return errors.New("set route cache: route is nil")
	}

	cr := cachedRoute{
		Source:     string(route.Source),
		Target:     string(route.Target),
		TotalHours: route.TotalHours,
		Segments:   make([]cachedSegment, 0, len(route.Segments)),
	}
	for _, s := range route.Segments {
		cr.Segments = append(cr.Segments, cachedSegment{
			From:        string(s.From),
			To:          string(s.To),
			Mode:        string(s.Mode),
			VoyageID:    s.VoyageID,
			ArrivalDate: s.ArrivalDate,
			Hours:       s.Hours,
		})
	}

	raw, err := json.Marshal(cr)
	if err != nil {
		return fmt.Errorf("set route cache %q: encode: %w", key, err)
	}

	if err := c.cache.Set(ctx, key, string(raw)); err != nil {
		return fmt.Errorf("set route cache %q: %w", key, err)
	}
	return nil
}
