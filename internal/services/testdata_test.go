package services

import (
	"time"

	"freight-route-service/internal/domain"
)

// flatMetric treats coordinates as a plane measured in kilometers, which keeps
// expected distances exact in tests.
type flatMetric struct{}

func (flatMetric) DistanceKm(a, b domain.Coordinates) float64 {
	dx := a.Lon - b.Lon
	dy := a.Lat - b.Lat
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

func at(day, hour int) time.Time {
	return time.Date(2024, 1, day, hour, 0, 0, 0, time.UTC)
}

func row(voyage string, times map[string][2]*time.Time) domain.ScheduleRow {
	r := domain.NewScheduleRow(voyage)
	for port, t := range times {
		if t[0] != nil {
			r.SetTime(port, domain.Departure, *t[0])
		}
		if t[1] != nil {
			r.SetTime(port, domain.Arrival, *t[1])
		}
	}
	return r
}

func ptr(t time.Time) *time.Time { return &t }

// sampleNetwork is a small Shanghai -> Moscow corridor:
//
//	Shanghai --sea--> Vladivostok --rail--> Moscow-Tovarnaya --road--> WH Podolsk
//	Shanghai --sea--> Pusan (two voyages)
func sampleNetwork() *domain.Network {
	return &domain.Network{
		RailSegments: []domain.RailSegment{
			{Origin: "Vladivostok", Station: "Moscow-Tovarnaya", StationCoords: domain.Coordinates{Lat: 0, Lon: 0}, TransitHours: 200},
			{Origin: "Vladivostok", Station: "Novosibirsk-Vostochny", StationCoords: domain.Coordinates{Lat: 100, Lon: 100}, TransitHours: 90},
		},
		SeaRoutes: []domain.SeaRoute{
			{Origin: "Shanghai", Destination: "Vladivostok"},
			{Origin: "Shanghai", Destination: "Pusan"},
		},
		Warehouses: []domain.Warehouse{
			{Name: "WH Podolsk", Coordinates: domain.Coordinates{Lat: 30, Lon: 30}},
		},
		Schedule: []domain.ScheduleRow{
			row("V1", map[string][2]*time.Time{
				"Shanghai":    {ptr(at(5, 0)), nil},
				"Pusan":       {nil, ptr(at(6, 12))},
				"Vladivostok": {nil, ptr(at(8, 0))},
			}),
			row("V2", map[string][2]*time.Time{
				"Shanghai": {ptr(at(10, 0)), nil},
				"Pusan":    {nil, ptr(at(12, 0))},
			}),
		},
	}
}
