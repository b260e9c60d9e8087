package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"freight-route-service/internal/adapters/cache"
	"freight-route-service/internal/adapters/geodesic"
	"freight-route-service/internal/adapters/repositories"
	"freight-route-service/internal/adapters/sheets"
	"freight-route-service/internal/api"
	"freight-route-service/internal/config"
	"freight-route-service/internal/platform/db"
	"freight-route-service/internal/platform/obs"
	"freight-route-service/internal/ports"
	"freight-route-service/internal/services"
	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// main is the application composition root.
// It wires the configured network source, the optional Redis route cache and
// the snapshot store behind the HTTP API.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	obs.SetupLogging(cfg.Log.Format, cfg.Log.Level)
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source, closeSource, err := openSource(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("source", cfg.Network.Source).Msg("Failed to open network source")
	}
	defer closeSource()

	metric, err := geodesic.ParseMetric(cfg.Graph.DistanceMetric)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid distance metric")
	}

	snapshots := services.NewSnapshotStore(source, services.SnapshotOptions{
		Build: services.BuildOptions{
			Policy:      cfg.Graph.EdgePolicy,
			RoadSpeedKm: cfg.Graph.RoadSpeedKmH,
			Metric:      metric,
		},
		Durations:   cfg.Graph.DurationPolicy,
		StrictNodes: cfg.Graph.StrictNodes,
	})

	// A failed first build is not fatal: /ready reports 503 until a rebuild succeeds.
	if _, err := snapshots.Rebuild(ctx); err != nil {
		log.Error().Err(err).Msg("Initial snapshot build failed")
	}
	go snapshots.Run(ctx, cfg.Network.RefreshInterval)

	var routeCache ports.RouteCache
	if cfg.Redis.Addr != "" {
		client, err := cache.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("Failed to connect to Redis")
		}
		defer client.Close()
		routeCache = cache.NewRedisRouteCache(client, cfg.Redis.RouteTTL)
		log.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", cfg.Redis.RouteTTL).Msg("Route cache enabled")
	}

	router := api.NewRouter(api.Deps{
		Finder:         services.NewRouteFinder(snapshots, routeCache, cfg.Server.BatchConcurrency),
		Snapshots:      snapshots,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("source", cfg.Network.Source).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
}

// openSource returns the configured network source and a func releasing it.
func openSource(ctx context.Context, cfg *config.Config) (ports.NetworkSource, func(), error) {
	noop := func() {}

	switch cfg.Network.Source {
	case config.SourceWorkbook:
		return sheets.NewWorkbookSource(cfg.Network.WorkbookPath, cfg.Network.ScheduleTZ), noop, nil
	case config.SourceCSV:
		return sheets.NewCSVDirSource(cfg.Network.CSVDir, cfg.Network.ScheduleTZ), noop, nil
	}

	var (
		conn *sql.DB
		err  error
	)
	switch cfg.Network.Source {
	case config.SourceSQLite:
		conn, err = db.Open(ctx, repositories.SQLite.DriverName(), cfg.Network.DBPath)
	case config.SourcePostgres:
		conn, err = db.Open(ctx, repositories.Postgres.DriverName(), cfg.Network.DatabaseURL)
	default:
		return nil, noop, fmt.Errorf("unknown network source %q", cfg.Network.Source)
	}
	if err != nil {
		return nil, noop, err
	}

	if err := repositories.InitSchema(ctx, conn); err != nil {
		conn.Close()
		return nil, noop, err
	}

	return repositories.NewSQLNetworkRepository(conn), func() { conn.Close() }, nil
}
