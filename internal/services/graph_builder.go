package services

import (
	"fmt"

	"freight-route-service/internal/domain"
	"freight-route-service/internal/ports"
)

// Average speed of the final-mile road leg from a rail station to a warehouse.
const AverageRoadSpeedKmH = 60.0

type BuildOptions struct {
	Policy      domain.EdgePolicy
	RoadSpeedKm float64
	Metric      ports.DistanceMetric
}

// BuildRouteGraph composes sea, rail and road legs into one directed graph.
//
// Insertion order is part of the contract: sea legs first, then rail legs,
// then one road leg per warehouse from its nearest rail station. Under
// LastWriteWins every insertion replaces an earlier edge with the same
// (origin, destination), so a rail leg overrides a sea leg on the same key
// and the last schedule row wins among sea legs.
//
// The builder does not check connectivity, cycles, or whether names used in
// one record set appear in another. When warehouses exist but there are no
// rail segments the build fails with ErrEmptyCandidateSet and no graph is returned.
func BuildRouteGraph(
	rail []domain.RailSegment,
	sea []SeaEdge,
	warehouses []domain.Warehouse,
	opts BuildOptions,
) (*domain.RouteGraph, error) {
	if opts.Metric == nil {
		return nil, fmt.Errorf("build route graph: distance metric must be non-nil")
	}

	speed := opts.RoadSpeedKm
	if speed == 0 {
		speed = AverageRoadSpeedKmH
	}
	if speed < 0 {
		return nil, fmt.Errorf("build route graph: road speed must be positive, got %v", speed)
	}

	g := domain.NewRouteGraph(opts.Policy)

	for _, se := range sea {
		g.AddEdge(domain.Edge{
			From:        domain.NodeID(se.Origin),
			To:          domain.NodeID(se.Destination),
			Hours:       se.Hours,
			Mode:        domain.ModeSea,
			VoyageID:    se.VoyageID,
			ArrivalDate: se.ArrivalDate,
		})
	}

	stations := make([]domain.Location, 0, len(rail))
	for _, rs := range rail {
		g.AddEdge(domain.Edge{
			From:  domain.NodeID(rs.Origin),
			To:    domain.NodeID(rs.Station),
			Hours: rs.TransitHours,
			Mode:  domain.ModeRail,
		})
		stations = append(stations, domain.Location{Name: rs.Station, Coordinates: rs.StationCoords})
	}

	for _, w := range warehouses {
		station, km, err := NearestFacility(w.Coordinates, stations, opts.Metric)
		if err != nil {
			return nil, fmt.Errorf("build route graph: nearest station to warehouse %q: %w", w.Name, err)
		}

		g.AddEdge(domain.Edge{
			From:       domain.NodeID(station),
			To:         domain.NodeID(w.Name),
			Hours:      km / speed,
			Mode:       domain.ModeRoad,
			DistanceKm: km,
		})
	}

	return g, nil
}
