package services

import (
	"errors"
	"testing"

	"freight-route-service/internal/adapters/geodesic"
	"freight-route-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNearestFacility(t *testing.T) {
	metric := geodesic.NewHaversine()

	moscow := domain.Location{Name: "Moscow-Tovarnaya", Coordinates: domain.Coordinates{Lat: 55.7558, Lon: 37.6173}}
	spb := domain.Location{Name: "Saint Petersburg-Sort", Coordinates: domain.Coordinates{Lat: 59.9343, Lon: 30.3351}}
	kazan := domain.Location{Name: "Kazan-Tovarnaya", Coordinates: domain.Coordinates{Lat: 55.7887, Lon: 49.1221}}

	t.Run("returns the true nearest candidate and its distance", func(t *testing.T) {
		podolsk := domain.Coordinates{Lat: 55.4242, Lon: 37.5547}

		name, km, err := NearestFacility(podolsk, []domain.Location{spb, kazan, moscow}, metric)
		require.NoError(t, err)
		assert.Equal(t, "Moscow-Tovarnaya", name)
		assert.InDelta(t, metric.DistanceKm(podolsk, moscow.Coordinates), km, 1e-9)
	})

	t.Run("first of equidistant candidates wins", func(t *testing.T) {
		a := domain.Location{Name: "A", Coordinates: domain.Coordinates{Lat: 0, Lon: 1}}
		b := domain.Location{Name: "B", Coordinates: domain.Coordinates{Lat: 0, Lon: -1}}

		name, _, err := NearestFacility(domain.Coordinates{}, []domain.Location{a, b}, metric)
		require.NoError(t, err)
		assert.Equal(t, "A", name)

		name, _, err = NearestFacility(domain.Coordinates{}, []domain.Location{b, a}, metric)
		require.NoError(t, err)
		assert.Equal(t, "B", name)
	})

	t.Run("empty candidates", func(t *testing.T) {
		_, _, err := NearestFacility(domain.Coordinates{}, nil, metric)
		assert.True(t, errors.Is(err, ErrEmptyCandidateSet))
	})
}
