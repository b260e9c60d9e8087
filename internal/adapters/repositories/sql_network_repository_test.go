package repositories

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"freight-route-service/internal/domain"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func sampleNetwork() *domain.Network {
	etd := time.Date(2024, 1, 5, 10, 0, 0, 0, time.FixedZone("CST", 8*3600))
	eta := time.Date(2024, 1, 8, 23, 30, 0, 0, time.FixedZone("VLAT", 10*3600))

	row := domain.NewScheduleRow("V1")
	row.SetTime("Shanghai", domain.Departure, etd)
	row.SetTime("Vladivostok", domain.Arrival, eta)

	return &domain.Network{
		RailSegments: []domain.RailSegment{
			{Origin: "Vladivostok", Station: "Moscow-Tovarnaya", StationCoords: domain.Coordinates{Lat: 55.7558, Lon: 37.6173}, TransitHours: 196.5},
			{Origin: "Vladivostok", Station: "Kazan-Tovarnaya", StationCoords: domain.Coordinates{Lat: 55.7887, Lon: 49.1221}, TransitHours: 150},
		},
		SeaRoutes:  []domain.SeaRoute{{Origin: "Shanghai", Destination: "Vladivostok"}},
		Warehouses: []domain.Warehouse{{Name: "WH Podolsk", Coordinates: domain.Coordinates{Lat: 55.4242, Lon: 37.5547}}},
		Schedule:   []domain.ScheduleRow{row},
	}
}

func TestSQLNetworkRepositoryLoadNetwork(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT (.+) FROM rail_segments ORDER BY seq`).
		WillReturnRows(sqlmock.NewRows([]string{"origin", "station", "lat", "lon", "transit_hours"}).
			AddRow("Vladivostok", "Moscow-Tovarnaya", 55.7558, 37.6173, 196.5))
	mock.ExpectQuery(`SELECT (.+) FROM sea_routes ORDER BY seq`).
		WillReturnRows(sqlmock.NewRows([]string{"origin", "destination"}).
			AddRow("Shanghai", "Vladivostok").
			AddRow("Shanghai", "Pusan"))
	mock.ExpectQuery(`SELECT (.+) FROM warehouses ORDER BY seq`).
		WillReturnRows(sqlmock.NewRows([]string{"name", "lat", "lon"}).
			AddRow("WH Podolsk", 55.4242, 37.5547))
	mock.ExpectQuery(`SELECT (.+) FROM schedule_rows ORDER BY seq`).
		WillReturnRows(sqlmock.NewRows([]string{"seq", "voyage"}).
			AddRow(0, "V1").
			AddRow(1, "V2"))
	mock.ExpectQuery(`SELECT (.+) FROM schedule_times ORDER BY row_seq, port, kind`).
		WillReturnRows(sqlmock.NewRows([]string{"row_seq", "port", "kind", "at_time"}).
			AddRow(0, "Shanghai", "ETD", "2024-01-05T10:00:00+08:00").
			AddRow(0, "Vladivostok", "ETA", "2024-01-08T23:30:00+10:00").
			AddRow(1, "Shanghai", "ETD", "2024-01-12T06:00:00Z").
			AddRow(7, "Pusan", "ETA", "2024-01-13T06:00:00Z"))

	net, err := NewSQLNetworkRepository(db).LoadNetwork(context.Background())
	require.NoError(t, err)

	require.Len(t, net.RailSegments, 1)
	assert.Equal(t, 196.5, net.RailSegments[0].TransitHours)
	assert.Equal(t, []domain.SeaRoute{
		{Origin: "Shanghai", Destination: "Vladivostok"},
		{Origin: "Shanghai", Destination: "Pusan"},
	}, net.SeaRoutes)
	require.Len(t, net.Warehouses, 1)

	require.Len(t, net.Schedule, 2)
	eta, ok := net.Schedule[0].Arrival("Vladivostok")
	require.True(t, ok)
	assert.Equal(t, "2024-01-08", eta.Format("2006-01-02"))
	_, ok = net.Schedule[1].Arrival("Vladivostok")
	assert.False(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLNetworkRepositoryQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM rail_segments`).WillReturnError(errors.New("connection reset"))

	_, err = NewSQLNetworkRepository(db).LoadNetwork(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list rail segments")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLNetworkRepositoryNilDB(t *testing.T) {
	_, err := NewSQLNetworkRepository(nil).LoadNetwork(context.Background())
	assert.Error(t, err)
}

func TestSeedNetworkPostgresPlaceholders(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	net := sampleNetwork()

	mock.ExpectBegin()
	for _, table := range []string{"schedule_times", "schedule_rows", "warehouses", "sea_routes", "rail_segments"} {
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM " + table)).WillReturnResult(sqlmock.NewResult(0, 0))
	}

	rail := mock.ExpectPrepare(regexp.QuoteMeta("INSERT INTO rail_segments (seq, origin, station, lat, lon, transit_hours) VALUES ($1, $2, $3, $4, $5, $6)"))
	rail.ExpectExec().WithArgs(0, "Vladivostok", "Moscow-Tovarnaya", 55.7558, 37.6173, 196.5).WillReturnResult(sqlmock.NewResult(1, 1))
	rail.ExpectExec().WithArgs(1, "Vladivostok", "Kazan-Tovarnaya", 55.7887, 49.1221, 150.0).WillReturnResult(sqlmock.NewResult(1, 1))

	sea := mock.ExpectPrepare(regexp.QuoteMeta("INSERT INTO sea_routes (seq, origin, destination) VALUES ($1, $2, $3)"))
	sea.ExpectExec().WithArgs(0, "Shanghai", "Vladivostok").WillReturnResult(sqlmock.NewResult(1, 1))

	wh := mock.ExpectPrepare(regexp.QuoteMeta("INSERT INTO warehouses (seq, name, lat, lon) VALUES ($1, $2, $3, $4)"))
	wh.ExpectExec().WithArgs(0, "WH Podolsk", 55.4242, 37.5547).WillReturnResult(sqlmock.NewResult(1, 1))

	rows := mock.ExpectPrepare(regexp.QuoteMeta("INSERT INTO schedule_rows (seq, voyage) VALUES ($1, $2)"))
	rows.ExpectExec().WithArgs(0, "V1").WillReturnResult(sqlmock.NewResult(1, 1))

	times := mock.ExpectPrepare(regexp.QuoteMeta("INSERT INTO schedule_times (row_seq, port, kind, at_time) VALUES ($1, $2, $3, $4)"))
	times.ExpectExec().WithArgs(0, "Shanghai", "ETD", "2024-01-05T10:00:00+08:00").WillReturnResult(sqlmock.NewResult(1, 1))
	times.ExpectExec().WithArgs(0, "Vladivostok", "ETA", "2024-01-08T23:30:00+10:00").WillReturnResult(sqlmock.NewResult(1, 1))

	mock.ExpectCommit()

	require.NoError(t, SeedNetwork(context.Background(), db, Postgres, net))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedNetworkRollsBackOnFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM schedule_times").WillReturnError(errors.New("permission denied"))
	mock.ExpectRollback()

	err = SeedNetwork(context.Background(), db, SQLite, sampleNetwork())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "clear schedule_times")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteRoundTrip(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	defer db.Close()

	ctx := context.Background()
	require.NoError(t, InitSchema(ctx, db))
	require.NoError(t, InitSchema(ctx, db), "schema init must be idempotent")

	want := sampleNetwork()
	require.NoError(t, SeedNetwork(ctx, db, SQLite, want))
	// Seeding again replaces, not appends.
	require.NoError(t, SeedNetwork(ctx, db, SQLite, want))

	got, err := NewSQLNetworkRepository(db).LoadNetwork(ctx)
	require.NoError(t, err)

	assert.Equal(t, want.RailSegments, got.RailSegments)
	assert.Equal(t, want.SeaRoutes, got.SeaRoutes)
	assert.Equal(t, want.Warehouses, got.Warehouses)

	require.Len(t, got.Schedule, 1)
	assert.Equal(t, "V1", got.Schedule[0].Voyage)

	wantETD, _ := want.Schedule[0].Departure("Shanghai")
	gotETD, ok := got.Schedule[0].Departure("Shanghai")
	require.True(t, ok)
	assert.True(t, wantETD.Equal(gotETD))

	gotETA, ok := got.Schedule[0].Arrival("Vladivostok")
	require.True(t, ok)
	assert.Equal(t, "2024-01-08", gotETA.Format("2006-01-02"))
}

func TestDialect(t *testing.T) {
	assert.Equal(t, "SELECT a FROM t WHERE x = $1 AND y = $2", Postgres.Rebind("SELECT a FROM t WHERE x = ? AND y = ?"))
	assert.Equal(t, "x = ?", SQLite.Rebind("x = ?"))

	d, err := ParseDialect("PostgreSQL")
	require.NoError(t, err)
	assert.Equal(t, Postgres, d)
	assert.Equal(t, "pgx", d.DriverName())

	d, err = ParseDialect("sqlite")
	require.NoError(t, err)
	assert.Equal(t, "sqlite", d.DriverName())

	_, err = ParseDialect("mysql")
	assert.Error(t, err)
}
