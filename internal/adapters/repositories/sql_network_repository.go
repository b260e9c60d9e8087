package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"freight-route-service/internal/domain"
	"freight-route-service/internal/platform/obs"
)

// SQL-backed implementation of the NetworkSource port.
type SQLNetworkRepository struct{ DB *sql.DB }

func NewSQLNetworkRepository(db *sql.DB) *SQLNetworkRepository {
	return &SQLNetworkRepository{DB: db}
}

// Return all four record sets in stored order.
func (s *SQLNetworkRepository) LoadNetwork(ctx context.Context) (net *domain.Network, err error) {
	defer obs.Time(ctx, "network.repository.LoadNetwork")(&err)

	if s.DB == nil {
		return nil, errors.New("sql network repository: DB is nil")
	}

	net = &domain.Network{}

	if net.RailSegments, err = s.listRailSegments(ctx); err != nil {
		return nil, err
	}
	if net.SeaRoutes, err = s.listSeaRoutes(ctx); err != nil {
		return nil, err
	}
	if net.Warehouses, err = s.listWarehouses(ctx); err != nil {
		return nil, err
	}
	if net.Schedule, err = s.listSchedule(ctx); err != nil {
		return nil, err
	}

	return net, nil
}

func (s *SQLNetworkRepository) listRailSegments(ctx context.Context) ([]domain.RailSegment, error) {
	query := `
	SELECT
		origin,
		station,
		lat,
		lon,
		transit_hours
	FROM rail_segments
	ORDER BY seq;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list rail segments: query rail_segments table: %w", err)
	}
	defer rows.Close()

	out := make([]domain.RailSegment, 0, 64)
	for rows.Next() {
		var rs domain.RailSegment
		if err := rows.Scan(&rs.Origin, &rs.Station, &rs.StationCoords.Lat, &rs.StationCoords.Lon, &rs.TransitHours); err != nil {
			return nil, fmt.Errorf("list rail segments: scan row: %w", err)
		}
		out = append(out, rs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list rail segments: row iteration: %w", err)
	}

	return out, nil
}

func (s *SQLNetworkRepository) listSeaRoutes(ctx context.Context) ([]domain.SeaRoute, error) {
	query := `
	SELECT
		origin,
		destination
	FROM sea_routes
	ORDER BY seq;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list sea routes: query sea_routes table: %w", err)
	}
	defer rows.Close()

	out := make([]domain.SeaRoute, 0, 32)
	for rows.Next() {
		var sr domain.SeaRoute
		if err := rows.Scan(&sr.Origin, &sr.Destination); err != nil {
			return nil, fmt.Errorf("list sea routes: scan row: %w", err)
		}
		out = append(out, sr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sea routes: row iteration: %w", err)
	}

	return out, nil
}

func (s *SQLNetworkRepository) listWarehouses(ctx context.Context) ([]domain.Warehouse, error) {
	query := `
	SELECT
		name,
		lat,
		lon
	FROM warehouses
	ORDER BY seq;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list warehouses: query warehouses table: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Warehouse, 0, 32)
	for rows.Next() {
		var w domain.Warehouse
		if err := rows.Scan(&w.Name, &w.Coordinates.Lat, &w.Coordinates.Lon); err != nil {
			return nil, fmt.Errorf("list warehouses: scan row: %w", err)
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list warehouses: row iteration: %w", err)
	}

	return out, nil
}

// Schedule rows and their port timings come from two tables joined in memory.
func (s *SQLNetworkRepository) listSchedule(ctx context.Context) ([]domain.ScheduleRow, error) {
	rowsQuery := `
	SELECT
		seq,
		voyage
	FROM schedule_rows
	ORDER BY seq;
	`
	rows, err := s.DB.QueryContext(ctx, rowsQuery)
	if err != nil {
		return nil, fmt.Errorf("list schedule: query schedule_rows table: %w", err)
	}

	out := make([]domain.ScheduleRow, 0, 64)
	index := make(map[int]int)
	for rows.Next() {
		var pos int
		var voyage string
		if err := rows.Scan(&pos, &voyage); err != nil {
			rows.Close()
			return nil, fmt.Errorf("list schedule: scan row: %w", err)
		}
		index[pos] = len(out)
		out = append(out, domain.NewScheduleRow(voyage))
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("list schedule: row iteration: %w", err)
	}
	rows.Close()

	timesQuery := `
	SELECT
		row_seq,
		port,
		kind,
		at_time
	FROM schedule_times
	ORDER BY row_seq, port, kind;
	`
	trows, err := s.DB.QueryContext(ctx, timesQuery)
	if err != nil {
		return nil, fmt.Errorf("list schedule: query schedule_times table: %w", err)
	}
	defer trows.Close()

	for trows.Next() {
		var pos int
		var port, kind, raw string
		if err := trows.Scan(&pos, &port, &kind, &raw); err != nil {
			return nil, fmt.Errorf("list schedule: scan time: %w", err)
		}

		i, ok := index[pos]
		if !ok {
			continue
		}
		at, err := time.Parse(storedTimeLayout, raw)
		if err != nil {
			return nil, fmt.Errorf("list schedule: row %d port %q: %w", pos, port, err)
		}

		switch kind {
		case kindETD:
			out[i].SetTime(port, domain.Departure, at)
		case kindETA:
			out[i].SetTime(port, domain.Arrival, at)
		}
	}
	if err := trows.Err(); err != nil {
		return nil, fmt.Errorf("list schedule: time iteration: %w", err)
	}

	return out, nil
}

func sortedPorts(ports map[string]domain.PortTimes) []string {
	out := make([]string, 0, len(ports))
	for p := range ports {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
