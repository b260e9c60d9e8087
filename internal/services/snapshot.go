package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"freight-route-service/internal/domain"
	"freight-route-service/internal/platform/obs"
	"freight-route-service/internal/ports"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// Record counts of the network a snapshot was built from.
type SnapshotCounts struct {
	RailSegments     int
	SeaRoutes        int
	Warehouses       int
	ScheduleRows     int
	SeaEdges         int
	NegativeSeaEdges int
	Nodes            int
	Edges            int
}

// An immutable, fully built route graph plus what it was built from.
// Readers may share a Snapshot freely; nothing mutates it after publication.
type Snapshot struct {
	Version       uint64
	Graph         *domain.RouteGraph
	Coverage      []StationCoverage
	ReferenceTime time.Time
	BuiltAt       time.Time
	Counts        SnapshotCounts
}

type SnapshotOptions struct {
	Build       BuildOptions
	Durations   DurationPolicy
	StrictNodes bool

	// Reference instant for the schedule window. Defaults to time.Now.
	Clock func() time.Time
}

// SnapshotStore owns the current route graph snapshot of a long-lived process.
type SnapshotStore struct {
	source ports.NetworkSource
	opts   SnapshotOptions

	current atomic.Pointer[Snapshot]
	version atomic.Uint64
	group   singleflight.Group
}

func NewSnapshotStore(source ports.NetworkSource, opts SnapshotOptions) *SnapshotStore {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &SnapshotStore{source: source, opts: opts}
}

// Current returns the latest published snapshot, or nil before the first successful build.
func (s *SnapshotStore) Current() *Snapshot {
	return s.current.Load()
}

// Rebuild loads the network, builds a new graph and publishes it.
// Concurrent callers share one in-flight build, which is detached from the
// first caller's cancellation. On failure the previous snapshot stays current.
func (s *SnapshotStore) Rebuild(ctx context.Context) (*Snapshot, error) {
	v, err, _ := s.group.Do("rebuild", func() (any, error) {
		return s.build(context.WithoutCancel(ctx))
	})
	if err != nil {
		return nil, err
	}
	return v.(*Snapshot), nil
}

func (s *SnapshotStore) build(ctx context.Context) (snap *Snapshot, err error) {
	defer obs.Time(ctx, "snapshot.rebuild")(&err)

	if s.source == nil {
		return nil, errors.New("rebuild snapshot: network source must be non-nil")
	}

	net, err := s.source.LoadNetwork(ctx)
	if err != nil {
		return nil, fmt.Errorf("rebuild snapshot: load network: %w", err)
	}

	if s.opts.StrictNodes {
		if err := net.Validate(); err != nil {
			return nil, fmt.Errorf("rebuild snapshot: %w", err)
		}
	}

	now := s.opts.Clock()

	sea := ResolveSeaEdges(net.SeaRoutes, net.Schedule, now, s.opts.Durations)
	negative := 0
	for _, e := range sea {
		if e.Hours < 0 {
			negative++
		}
	}
	if negative > 0 {
		log.Warn().
			Int("count", negative).
			Str("policy", s.opts.Durations.String()).
			Msg("Sea legs with arrival before departure; shortest paths may be wrong")
	}

	g, err := BuildRouteGraph(net.RailSegments, sea, net.Warehouses, s.opts.Build)
	if err != nil {
		return nil, fmt.Errorf("rebuild snapshot: %w", err)
	}

	var coverage []StationCoverage
	if len(net.Warehouses) > 0 {
		coverage, err = ComputeStationCoverage(net.RailSegments, net.Warehouses, s.opts.Build.Metric, s.opts.Build.RoadSpeedKm)
		if err != nil {
			return nil, fmt.Errorf("rebuild snapshot: %w", err)
		}
	}

	snap = &Snapshot{
		Version:       s.version.Add(1),
		Graph:         g,
		Coverage:      coverage,
		ReferenceTime: now,
		BuiltAt:       time.Now(),
		Counts: SnapshotCounts{
			RailSegments:     len(net.RailSegments),
			SeaRoutes:        len(net.SeaRoutes),
			Warehouses:       len(net.Warehouses),
			ScheduleRows:     len(net.Schedule),
			SeaEdges:         len(sea),
			NegativeSeaEdges: negative,
			Nodes:            g.NodeCount(),
			Edges:            g.EdgeCount(),
		},
	}
	s.current.Store(snap)

	log.Info().
		Uint64("version", snap.Version).
		Int("nodes", snap.Counts.Nodes).
		Int("edges", snap.Counts.Edges).
		Int("sea_edges", snap.Counts.SeaEdges).
		Time("reference_time", now).
		Msg("Route graph snapshot published")

	return snap, nil
}

// Run rebuilds the snapshot every interval until ctx is done. Failed
// rebuilds are logged and the previous snapshot keeps serving.
func (s *SnapshotStore) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Rebuild(ctx); err != nil {
				log.Error().Err(err).Msg("Scheduled snapshot rebuild failed")
			}
		}
	}
}
