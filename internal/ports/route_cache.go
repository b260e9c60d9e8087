package ports

import (
	"context"
	"freight-route-service/internal/domain"
)

// Optional store for solved routes, keyed by graph snapshot and node pair.
type RouteCache interface {
	// Return the cached route and whether it was present.
	Get(ctx context.Context, key string) (*domain.Route, bool, error)
	// Store a solved route.
	Set(ctx context.Context, key string, route *domain.Route) error
}
