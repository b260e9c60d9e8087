package dto

import (
	"time"

	"freight-route-service/internal/report"
)

type NetworkCounts struct {
	RailSegments     int `json:"rail_segments"`
	SeaRoutes        int `json:"sea_routes"`
	Warehouses       int `json:"warehouses"`
	ScheduleRows     int `json:"schedule_rows"`
	SeaEdges         int `json:"sea_edges"`
	NegativeSeaEdges int `json:"negative_sea_edges"`
	Nodes            int `json:"nodes"`
	Edges            int `json:"edges"`
}

type NetworkResponse struct {
	Version       uint64        `json:"version"`
	ReferenceTime time.Time     `json:"reference_time"`
	BuiltAt       time.Time     `json:"built_at"`
	Counts        NetworkCounts `json:"counts"`
}

type StationCoverageResponse struct {
	Stations []report.Coverage `json:"stations"`
}
