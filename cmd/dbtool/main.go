package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"freight-route-service/internal/adapters/repositories"
	"freight-route-service/internal/adapters/sheets"
	"freight-route-service/internal/config"
	"freight-route-service/internal/domain"
	"freight-route-service/internal/platform/db"
	"freight-route-service/internal/platform/obs"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	_ "modernc.org/sqlite"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found (using environment variables)")
	}
	obs.SetupLogging(config.Get("LOG_FORMAT", "console"), config.Get("LOG_LEVEL", "info"))

	dbFlags := []cli.Flag{
		&cli.StringFlag{
			Name:  "dialect",
			Value: "sqlite",
			Usage: "sqlite or postgres",
		},
		&cli.StringFlag{
			Name:  "dsn",
			Usage: "database path (sqlite) or URL (postgres); defaults to DB_PATH or DATABASE_URL",
		},
	}

	app := &cli.App{
		Name:  "dbtool",
		Usage: "Create the network schema and load record sets into it",
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Create the network tables if they do not exist",
				Flags: dbFlags,
				Action: func(c *cli.Context) error {
					conn, _, err := openDB(c)
					if err != nil {
						return err
					}
					defer conn.Close()

					log.Info().Msg("Initializing database schema...")
					if err := repositories.InitSchema(c.Context, conn); err != nil {
						return fmt.Errorf("schema initialization failed: %w", err)
					}
					log.Info().Msg("Schema ready.")
					return nil
				},
			},
			{
				Name:  "seed",
				Usage: "Replace the stored network with the contents of a workbook or CSV directory",
				Flags: append([]cli.Flag{
					&cli.StringFlag{Name: "workbook", Usage: "path to the .xlsx workbook"},
					&cli.StringFlag{Name: "csv-dir", Usage: "directory holding the four CSV record sets"},
					&cli.StringFlag{Name: "tz", Value: config.Get("SCHEDULE_TZ", "UTC"), Usage: "zone of schedule timestamps"},
				}, dbFlags...),
				Action: func(c *cli.Context) error {
					net, err := loadSheets(c)
					if err != nil {
						return err
					}

					conn, dialect, err := openDB(c)
					if err != nil {
						return err
					}
					defer conn.Close()

					if err := repositories.InitSchema(c.Context, conn); err != nil {
						return fmt.Errorf("schema initialization failed: %w", err)
					}

					log.Info().Msg("Seeding database...")
					if err := repositories.SeedNetwork(c.Context, conn, dialect, net); err != nil {
						return fmt.Errorf("seeding failed: %w", err)
					}
					log.Info().
						Int("rail_segments", len(net.RailSegments)).
						Int("sea_routes", len(net.SeaRoutes)).
						Int("warehouses", len(net.Warehouses)).
						Int("schedule_rows", len(net.Schedule)).
						Msg("Seeding complete.")
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Send()
	}
}

func openDB(c *cli.Context) (*sql.DB, repositories.Dialect, error) {
	dialect, err := repositories.ParseDialect(c.String("dialect"))
	if err != nil {
		return nil, 0, err
	}

	dsn := c.String("dsn")
	if dsn == "" {
		if dialect == repositories.Postgres {
			dsn = config.Get("DATABASE_URL", "")
		} else {
			dsn = config.Get("DB_PATH", "data/network.db")
		}
	}
	if dsn == "" {
		return nil, 0, errors.New("--dsn or DATABASE_URL is required for postgres")
	}

	ctx, cancel := context.WithTimeout(c.Context, time.Minute)
	defer cancel()

	conn, err := db.Open(ctx, dialect.DriverName(), dsn)
	if err != nil {
		return nil, 0, err
	}
	return conn, dialect, nil
}

func loadSheets(c *cli.Context) (*domain.Network, error) {
	loc, err := time.LoadLocation(c.String("tz"))
	if err != nil {
		return nil, fmt.Errorf("--tz: %w", err)
	}

	workbook, dir := c.String("workbook"), c.String("csv-dir")
	switch {
	case workbook != "" && dir != "":
		return nil, errors.New("use either --workbook or --csv-dir, not both")
	case workbook != "":
		return sheets.LoadWorkbook(c.Context, workbook, loc)
	case dir != "":
		return sheets.LoadCSVDir(c.Context, dir, loc)
	default:
		return nil, errors.New("one of --workbook or --csv-dir is required")
	}
}
