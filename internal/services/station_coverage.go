package services

import (
	"fmt"

	"freight-route-service/internal/domain"
	"freight-route-service/internal/ports"
)

// Nearest warehouse to the destination station of one rail segment.
type StationCoverage struct {
	Origin         string
	Station        string
	Warehouse      string
	DistanceKm     float64
	DriveTimeHours float64
}

// Summarize, for every rail segment in order, which warehouse its destination
// station serves best and how long the road leg would take.
//
// This is a reporting view; it does not feed the route graph, where the
// direction is reversed (each warehouse picks its nearest station).
func ComputeStationCoverage(
	rail []domain.RailSegment,
	warehouses []domain.Warehouse,
	metric ports.DistanceMetric,
	roadSpeedKmH float64,
) ([]StationCoverage, error) {
	if roadSpeedKmH <= 0 {
		roadSpeedKmH = AverageRoadSpeedKmH
	}

	candidates := make([]domain.Location, 0, len(warehouses))
	for _, w := range warehouses {
		candidates = append(candidates, w.Location())
	}

	out := make([]StationCoverage, 0, len(rail))
	for _, rs := range rail {
		name, km, err := NearestFacility(rs.StationCoords, candidates, metric)
		if err != nil {
			return nil, fmt.Errorf("station coverage: station %q: %w", rs.Station, err)
		}

		out = append(out, StationCoverage{
			Origin:         rs.Origin,
			Station:        rs.Station,
			Warehouse:      name,
			DistanceKm:     km,
			DriveTimeHours: km / roadSpeedKmH,
		})
	}

	return out, nil
}
