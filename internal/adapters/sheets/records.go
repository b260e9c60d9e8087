package sheets

import (
	"strings"

	"freight-route-service/internal/domain"
)

// Sheet names of the network workbook.
const (
	RailSheet      = "Маршрут ЖД"
	SeaSheet       = "Маршрут Море"
	WarehouseSheet = "Склады"
	ScheduleSheet  = "Расписание"
)

// File names of the CSV directory layout, one per sheet.
const (
	RailFile      = "rail.csv"
	SeaFile       = "sea.csv"
	WarehouseFile = "warehouses.csv"
	ScheduleFile  = "schedule.csv"
)

// Column headers shared by the sheets.
const (
	colRailOrigin    = "Город 1"
	colDestination   = "Место назначения"
	colLatitude      = "Широта"
	colLongitude     = "Долгота"
	colRailHours     = "Время (по участковой скорости поезда)"
	colSeaOrigin     = "Пункт отправки"
	colWarehouseName = "Название"
)

type railRecord struct {
	Origin  string  `csv:"Город 1"`
	Station string  `csv:"Место назначения"`
	Lat     float64 `csv:"Широта"`
	Lon     float64 `csv:"Долгота"`
	Hours   float64 `csv:"Время (по участковой скорости поезда)"`
}

type seaRecord struct {
	Origin      string `csv:"Пункт отправки"`
	Destination string `csv:"Место назначения"`
}

type warehouseRecord struct {
	Name string  `csv:"Название"`
	Lat  float64 `csv:"Широта"`
	Lon  float64 `csv:"Долгота"`
}

var (
	railColumns      = []string{colRailOrigin, colDestination, colLatitude, colLongitude, colRailHours}
	seaColumns       = []string{colSeaOrigin, colDestination}
	warehouseColumns = []string{colWarehouseName, colLatitude, colLongitude}
	scheduleColumns  = []string{domain.VoyageColumn}
)

// Records without a name are dropped; spreadsheets often carry blank trailing rows.
func toRailSegments(records []railRecord) []domain.RailSegment {
	out := make([]domain.RailSegment, 0, len(records))
	for _, r := range records {
		origin, station := strings.TrimSpace(r.Origin), strings.TrimSpace(r.Station)
		if origin == "" || station == "" {
			continue
		}
		out = append(out, domain.RailSegment{
			Origin:        origin,
			Station:       station,
			StationCoords: domain.Coordinates{Lat: r.Lat, Lon: r.Lon},
			TransitHours:  r.Hours,
		})
	}
	return out
}

func toSeaRoutes(records []seaRecord) []domain.SeaRoute {
	out := make([]domain.SeaRoute, 0, len(records))
	for _, r := range records {
		origin, dest := strings.TrimSpace(r.Origin), strings.TrimSpace(r.Destination)
		if origin == "" || dest == "" {
			continue
		}
		out = append(out, domain.SeaRoute{Origin: origin, Destination: dest})
	}
	return out
}

func toWarehouses(records []warehouseRecord) []domain.Warehouse {
	out := make([]domain.Warehouse, 0, len(records))
	for _, r := range records {
		name := strings.TrimSpace(r.Name)
		if name == "" {
			continue
		}
		out = append(out, domain.Warehouse{
			Name:        name,
			Coordinates: domain.Coordinates{Lat: r.Lat, Lon: r.Lon},
		})
	}
	return out
}
