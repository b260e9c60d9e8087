package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"freight-route-service/internal/domain"
)

// Timing kinds as stored in schedule_times.kind.
const (
	kindETD = "ETD"
	kindETA = "ETA"
)

// Stored instants keep their UTC offset so the arrival day survives a round trip.
const storedTimeLayout = time.RFC3339Nano

// Initialize the network schema. Every table carries a seq column:
// record order drives edge precedence in the route graph and must survive
// a round trip through the database.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createRailQuery := `
	CREATE TABLE IF NOT EXISTS rail_segments (
		seq INTEGER PRIMARY KEY,
		origin TEXT NOT NULL,
		station TEXT NOT NULL,
		lat DOUBLE PRECISION NOT NULL,
		lon DOUBLE PRECISION NOT NULL,
		transit_hours DOUBLE PRECISION NOT NULL
	);
	`

	createSeaQuery := `
	CREATE TABLE IF NOT EXISTS sea_routes (
		seq INTEGER PRIMARY KEY,
		origin TEXT NOT NULL,
		destination TEXT NOT NULL
	);
	`

	createWarehouseQuery := `
	CREATE TABLE IF NOT EXISTS warehouses (
		seq INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		lat DOUBLE PRECISION NOT NULL,
		lon DOUBLE PRECISION NOT NULL
	);
	`

	createScheduleRowsQuery := `
	CREATE TABLE IF NOT EXISTS schedule_rows (
		seq INTEGER PRIMARY KEY,
		voyage TEXT NOT NULL
	);
	`

	createScheduleTimesQuery := `
	CREATE TABLE IF NOT EXISTS schedule_times (
		row_seq INTEGER NOT NULL REFERENCES schedule_rows(seq) ON DELETE CASCADE,
		port TEXT NOT NULL,
		kind TEXT NOT NULL CHECK (kind IN ('ETD', 'ETA')),
		at_time TEXT NOT NULL,
		PRIMARY KEY (row_seq, port, kind)
	);
	`

	statements := []string{
		createRailQuery,
		createSeaQuery,
		createWarehouseQuery,
		createScheduleRowsQuery,
		createScheduleTimesQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// Replace the stored network with net in one transaction.
func SeedNetwork(ctx context.Context, db *sql.DB, dialect Dialect, net *domain.Network) error {
	if db == nil {
		return errors.New("seed network: DB is nil")
	}
	if net == nil {
		return errors.New("seed network: network is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed network: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Children first; sqlite does not enforce the cascade without a pragma.
	for _, table := range []string{"schedule_times", "schedule_rows", "warehouses", "sea_routes", "rail_segments"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("seed network: clear %s: %w", table, err)
		}
	}

	insert := func(query string, rows int, args func(i int) []any) error {
		if rows == 0 {
			return nil
		}
		stmt, err := tx.PrepareContext(ctx, dialect.Rebind(query))
		if err != nil {
			return fmt.Errorf("prepare insert: %w", err)
		}
		defer stmt.Close()

		for i := 0; i < rows; i++ {
			if _, err := stmt.ExecContext(ctx, args(i)...); err != nil {
				return fmt.Errorf("insert row %d: %w", i+1, err)
			}
		}
		return nil
	}

	err = insert(
		`INSERT INTO rail_segments (seq, origin, station, lat, lon, transit_hours) VALUES (?, ?, ?, ?, ?, ?)`,
		len(net.RailSegments),
		func(i int) []any {
			rs := net.RailSegments[i]
			return []any{i, rs.Origin, rs.Station, rs.StationCoords.Lat, rs.StationCoords.Lon, rs.TransitHours}
		},
	)
	if err != nil {
		return fmt.Errorf("seed network: rail segments: %w", err)
	}

	err = insert(
		`INSERT INTO sea_routes (seq, origin, destination) VALUES (?, ?, ?)`,
		len(net.SeaRoutes),
		func(i int) []any {
			sr := net.SeaRoutes[i]
			return []any{i, sr.Origin, sr.Destination}
		},
	)
	if err != nil {
		return fmt.Errorf("seed network: sea routes: %w", err)
	}

	err = insert(
		`INSERT INTO warehouses (seq, name, lat, lon) VALUES (?, ?, ?, ?)`,
		len(net.Warehouses),
		func(i int) []any {
			w := net.Warehouses[i]
			return []any{i, w.Name, w.Coordinates.Lat, w.Coordinates.Lon}
		},
	)
	if err != nil {
		return fmt.Errorf("seed network: warehouses: %w", err)
	}

	err = insert(
		`INSERT INTO schedule_rows (seq, voyage) VALUES (?, ?)`,
		len(net.Schedule),
		func(i int) []any { return []any{i, net.Schedule[i].Voyage} },
	)
	if err != nil {
		return fmt.Errorf("seed network: schedule rows: %w", err)
	}

	times := flattenScheduleTimes(net.Schedule)
	err = insert(
		`INSERT INTO schedule_times (row_seq, port, kind, at_time) VALUES (?, ?, ?, ?)`,
		len(times),
		func(i int) []any {
			st := times[i]
			return []any{st.row, st.port, st.kind, st.at.Format(storedTimeLayout)}
		},
	)
	if err != nil {
		return fmt.Errorf("seed network: schedule times: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed network: commit tx: %w", err)
	}

	return nil
}

type scheduleTime struct {
	row  int
	port string
	kind string
	at   time.Time
}

func flattenScheduleTimes(schedule []domain.ScheduleRow) []scheduleTime {
	var out []scheduleTime
	for i, r := range schedule {
		for _, port := range sortedPorts(r.Ports) {
			pt := r.Ports[port]
			if pt.ETD != nil {
				out = append(out, scheduleTime{row: i, port: port, kind: kindETD, at: *pt.ETD})
			}
			if pt.ETA != nil {
				out = append(out, scheduleTime{row: i, port: port, kind: kindETA, at: *pt.ETA})
			}
		}
	}
	return out
}
