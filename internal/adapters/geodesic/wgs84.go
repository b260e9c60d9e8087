package geodesic

import (
	"fmt"
	"strings"

	"freight-route-service/internal/domain"
	"freight-route-service/internal/ports"
	karney "github.com/tidwall/geodesic"
)

// Names accepted by ParseMetric.
const (
	MetricWGS84     = "wgs84"
	MetricHaversine = "haversine"
)

// WGS84 measures the shortest path on the WGS-84 ellipsoid (Karney's method).
type WGS84 struct{}

func NewWGS84() WGS84 { return WGS84{} }

func (WGS84) DistanceKm(a, b domain.Coordinates) float64 {
	var meters float64
	karney.WGS84.Inverse(a.Lat, a.Lon, b.Lat, b.Lon, &meters, nil, nil)
	return meters / 1000
}

// ParseMetric returns the distance metric for name; empty means WGS-84.
func ParseMetric(name string) (ports.DistanceMetric, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", MetricWGS84, "ellipsoid":
		return NewWGS84(), nil
	case MetricHaversine, "sphere":
		return NewHaversine(), nil
	default:
		return nil, fmt.Errorf("parse metric: unknown distance metric %q", name)
	}
}
