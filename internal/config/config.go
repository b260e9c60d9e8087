package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"freight-route-service/internal/domain"
	"freight-route-service/internal/services"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Where the network record sets are read from.
const (
	SourceWorkbook = "workbook"
	SourceCSV      = "csv"
	SourceSQLite   = "sqlite"
	SourcePostgres = "postgres"
)

// Config holds all configuration for the service and CLIs.
type Config struct {
	Server  ServerConfig
	Log     LogConfig
	Network NetworkConfig
	Graph   GraphConfig
	Redis   RedisConfig
}

type ServerConfig struct {
	Port             string
	AllowedOrigins   []string
	BatchConcurrency int
}

type LogConfig struct {
	Format string // "JSON" or console
	Level  string
}

// NetworkConfig selects and locates the network source.
type NetworkConfig struct {
	Source       string
	WorkbookPath string
	CSVDir       string
	DBPath       string
	DatabaseURL  string

	// Zero disables periodic rebuilds.
	RefreshInterval time.Duration
	ScheduleTZ      *time.Location
}

type GraphConfig struct {
	// "wgs84" (ellipsoid, default) or "haversine" (sphere).
	DistanceMetric string
	RoadSpeedKmH   float64
	EdgePolicy     domain.EdgePolicy
	DurationPolicy services.DurationPolicy
	StrictNodes    bool
}

// RedisConfig is optional; an empty Addr disables the route cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	RouteTTL time.Duration
}

// Load reads a .env file if present, then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found (using environment variables)")
	}
	return FromEnv()
}

// FromEnv builds the configuration from environment variables only.
func FromEnv() (*Config, error) {
	edgePolicy, err := domain.ParseEdgePolicy(Get("EDGE_POLICY", "last-write-wins"))
	if err != nil {
		return nil, fmt.Errorf("config: EDGE_POLICY: %w", err)
	}

	durationPolicy, err := services.ParseDurationPolicy(Get("DURATION_POLICY", "passthrough"))
	if err != nil {
		return nil, fmt.Errorf("config: DURATION_POLICY: %w", err)
	}

	tzName := Get("SCHEDULE_TZ", "UTC")
	tz, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("config: SCHEDULE_TZ %q: %w", tzName, err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:             Get("PORT", "8080"),
			AllowedOrigins:   getSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			BatchConcurrency: getInt("BATCH_CONCURRENCY", services.DefaultBatchConcurrency),
		},
		Log: LogConfig{
			Format: Get("LOG_FORMAT", "console"),
			Level:  Get("LOG_LEVEL", "info"),
		},
		Network: NetworkConfig{
			Source:          strings.ToLower(Get("NETWORK_SOURCE", SourceWorkbook)),
			WorkbookPath:    Get("WORKBOOK_PATH", "data/network.xlsx"),
			CSVDir:          Get("CSV_DIR", "data/network"),
			DBPath:          Get("DB_PATH", "data/network.db"),
			DatabaseURL:     Get("DATABASE_URL", ""),
			RefreshInterval: getDuration("REFRESH_INTERVAL", 15*time.Minute),
			ScheduleTZ:      tz,
		},
		Graph: GraphConfig{
			DistanceMetric: strings.ToLower(Get("DISTANCE_METRIC", "wgs84")),
			RoadSpeedKmH:   getFloat("ROAD_SPEED_KMH", services.AverageRoadSpeedKmH),
			EdgePolicy:     edgePolicy,
			DurationPolicy: durationPolicy,
			StrictNodes:    getBool("STRICT_NODES", true),
		},
		Redis: RedisConfig{
			Addr:     Get("REDIS_ADDR", ""),
			Password: Get("REDIS_PASSWORD", ""),
			DB:       getInt("REDIS_DB", 0),
			RouteTTL: getDuration("ROUTE_CACHE_TTL", 90*time.Minute),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Network.Source {
	case SourceWorkbook:
		if c.Network.WorkbookPath == "" {
			return fmt.Errorf("config: WORKBOOK_PATH is required for workbook source")
		}
	case SourceCSV:
		if c.Network.CSVDir == "" {
			return fmt.Errorf("config: CSV_DIR is required for csv source")
		}
	case SourceSQLite:
		if c.Network.DBPath == "" {
			return fmt.Errorf("config: DB_PATH is required for sqlite source")
		}
	case SourcePostgres:
		if c.Network.DatabaseURL == "" {
			return fmt.Errorf("config: DATABASE_URL is required for postgres source")
		}
	default:
		return fmt.Errorf("config: unknown NETWORK_SOURCE %q (want workbook, csv, sqlite or postgres)", c.Network.Source)
	}

	switch c.Graph.DistanceMetric {
	case "wgs84", "haversine":
	default:
		return fmt.Errorf("config: unknown DISTANCE_METRIC %q (want wgs84 or haversine)", c.Graph.DistanceMetric)
	}

	if c.Graph.RoadSpeedKmH <= 0 {
		return fmt.Errorf("config: ROAD_SPEED_KMH must be positive, got %v", c.Graph.RoadSpeedKmH)
	}
	if c.Network.RefreshInterval < 0 {
		return fmt.Errorf("config: REFRESH_INTERVAL must not be negative")
	}

	return nil
}

// Get returns the environment value for key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	raw := Get(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Warn().Str("key", key).Str("value", raw).Int("default", fallback).Msg("Invalid integer value, using default")
		return fallback
	}
	return v
}

func getFloat(key string, fallback float64) float64 {
	raw := Get(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Warn().Str("key", key).Str("value", raw).Float64("default", fallback).Msg("Invalid number value, using default")
		return fallback
	}
	return v
}

func getBool(key string, fallback bool) bool {
	raw := Get(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		log.Warn().Str("key", key).Str("value", raw).Bool("default", fallback).Msg("Invalid boolean value, using default")
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := Get(key, "")
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		log.Warn().Str("key", key).Str("value", raw).Dur("default", fallback).Msg("Invalid duration value, using default")
		return fallback
	}
	return v
}

func getSlice(key string, fallback []string) []string {
	raw := Get(key, "")
	if raw == "" {
		return fallback
	}
	var out []string
	for _, v := range strings.Split(raw, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
