package geodesic

import (
	"math"

	"freight-route-service/internal/domain"
)

// Mean Earth radius used for great-circle distances.
const EarthRadiusKm = 6371.0

// Haversine measures great-circle distance on a sphere of radius EarthRadiusKm.
type Haversine struct{}

func NewHaversine() Haversine { return Haversine{} }

func toRadians(deg float64) float64 { return deg * math.Pi / 180 }

// DistanceKm returns the great-circle distance between a and b in kilometers.
func (Haversine) DistanceKm(a, b domain.Coordinates) float64 {
	phi1 := toRadians(a.Lat)
	phi2 := toRadians(b.Lat)
	deltaPhi := toRadians(b.Lat - a.Lat)
	deltaLambda := toRadians(b.Lon - a.Lon)

	h := math.Sin(deltaPhi/2)*math.Sin(deltaPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*
			math.Sin(deltaLambda/2)*math.Sin(deltaLambda/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusKm * c
}
