package services

import (
	"context"
	"errors"
	"fmt"

	"freight-route-service/internal/domain"
	"freight-route-service/internal/platform/obs"
	"freight-route-service/internal/ports"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
)

var ErrNoSnapshot = errors.New("route graph not built yet")

const DefaultBatchConcurrency = 8

// One source/target query of a batch.
type RoutePair struct {
	Source domain.NodeID
	Target domain.NodeID
}

// Outcome of one batch query. Exactly one of Route and Err is set.
type RouteResult struct {
	Pair  RoutePair
	Route *domain.Route
	Err   error
}

// RouteFinder answers route queries against the current snapshot.
type RouteFinder struct {
	snapshots   *SnapshotStore
	cache       ports.RouteCache
	concurrency int
}

// NewRouteFinder wires a finder to its snapshot store. cache may be nil.
func NewRouteFinder(snapshots *SnapshotStore, cache ports.RouteCache, concurrency int) *RouteFinder {
	if concurrency <= 0 {
		concurrency = DefaultBatchConcurrency
	}
	return &RouteFinder{snapshots: snapshots, cache: cache, concurrency: concurrency}
}

func routeCacheKey(version uint64, source, target domain.NodeID) string {
	return fmt.Sprintf("routes/v%d/%s/%s", version, source, target)
}

// Find returns the fastest route from source to target on the current snapshot.
func (f *RouteFinder) Find(ctx context.Context, source, target domain.NodeID) (route *domain.Route, err error) {
	defer obs.Time(ctx, "routes.find")(&err)

	snap := f.snapshots.Current()
	if snap == nil {
		return nil, ErrNoSnapshot
	}

	key := routeCacheKey(snap.Version, source, target)
	if f.cache != nil {
		cached, ok, cerr := f.cache.Get(ctx, key)
		if cerr != nil {
			log.Warn().Err(cerr).Str("key", key).Msg("Route cache read failed")
		} else if ok {
			return cached, nil
		}
	}

	route, err = ShortestPath(snap.Graph, source, target)
	if err != nil {
		return nil, err
	}

	if f.cache != nil {
		if cerr := f.cache.Set(ctx, key, route); cerr != nil {
			log.Warn().Err(cerr).Str("key", key).Msg("Route cache write failed")
		}
	}

	return route, nil
}

// FindMany answers every pair concurrently and returns results in input order.
// Per-pair failures are reported in the result, not as an error.
func (f *RouteFinder) FindMany(ctx context.Context, pairs []RoutePair) []RouteResult {
	results := make([]RouteResult, len(pairs))

	p := pool.New().WithMaxGoroutines(f.concurrency)
	for i, pair := range pairs {
		i, pair := i, pair
		p.Go(func() {
			route, err := f.Find(ctx, pair.Source, pair.Target)
			results[i] = RouteResult{Pair: pair, Route: route, Err: err}
		})
	}
	p.Wait()

	return results
}
