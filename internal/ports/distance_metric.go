package ports

import "freight-route-service/internal/domain"

// Contract for measuring the distance between two points on the globe.
type DistanceMetric interface {
	// Return the distance in kilometers between a and b.
	DistanceKm(a, b domain.Coordinates) float64
}
