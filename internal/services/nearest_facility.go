package services

import (
	"errors"
	"fmt"
	"math"

	"freight-route-service/internal/domain"
	"freight-route-service/internal/ports"
)

var ErrEmptyCandidateSet = errors.New("empty candidate set")

// NearestFacility returns the candidate closest to point and its distance in kilometers.
//
// Candidates are scanned in order and only a strictly smaller distance replaces
// the current best, so the first of several equidistant candidates wins.
func NearestFacility(
	point domain.Coordinates,
	candidates []domain.Location,
	metric ports.DistanceMetric,
) (string, float64, error) {
	if len(candidates) == 0 {
		return "", 0, ErrEmptyCandidateSet
	}

	best := -1
	minDistance := math.Inf(1)

	for i, c := range candidates {
		d := metric.DistanceKm(point, c.Coordinates)
		if d < minDistance {
			minDistance = d
			best = i
		}
	}

	if best < 0 {
		return "", 0, fmt.Errorf("nearest facility: no candidate at a finite distance from (%f, %f)", point.Lat, point.Lon)
	}

	return candidates[best].Name, minDistance, nil
}
