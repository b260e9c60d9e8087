package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"freight-route-service/internal/adapters/geodesic"
	"freight-route-service/internal/adapters/sheets"
	"freight-route-service/internal/domain"
	"freight-route-service/internal/platform/obs"
	"freight-route-service/internal/ports"
	"freight-route-service/internal/report"
	"freight-route-service/internal/services"
	"github.com/araddon/dateparse"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	_ "time/tzdata"
)

func main() {
	app := &cli.App{
		Name:  "routefinder",
		Usage: "Print the fastest route between two nodes of a freight network",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "workbook", Usage: "path to the .xlsx workbook"},
			&cli.StringFlag{Name: "csv-dir", Usage: "directory holding the four CSV record sets"},
			&cli.StringFlag{Name: "from", Usage: "source node", Required: true},
			&cli.StringFlag{Name: "to", Usage: "target node", Required: true},
			&cli.StringFlag{Name: "tz", Value: "UTC", Usage: "zone of schedule timestamps"},
			&cli.StringFlag{Name: "at", Usage: "reference instant of the schedule window (default now)"},
			&cli.StringFlag{Name: "edge-policy", Value: domain.LastWriteWins.String()},
			&cli.StringFlag{Name: "duration-policy", Value: services.PassThrough.String()},
			&cli.StringFlag{Name: "metric", Value: geodesic.MetricWGS84, Usage: "wgs84 or haversine"},
			&cli.Float64Flag{Name: "road-speed", Value: services.AverageRoadSpeedKmH, Usage: "km/h of the warehouse road leg"},
			&cli.BoolFlag{Name: "stations", Usage: "also print the nearest warehouse of every rail station"},
			&cli.BoolFlag{Name: "json", Usage: "print JSON instead of text"},
			&cli.StringFlag{Name: "log-level", Value: "warn"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Send()
	}
}

func run(c *cli.Context) error {
	obs.SetupLogging("console", c.String("log-level"))

	loc, err := time.LoadLocation(c.String("tz"))
	if err != nil {
		return fmt.Errorf("--tz: %w", err)
	}

	source, err := sourceFromFlags(c, loc)
	if err != nil {
		return err
	}

	edgePolicy, err := domain.ParseEdgePolicy(c.String("edge-policy"))
	if err != nil {
		return fmt.Errorf("--edge-policy: %w", err)
	}
	durationPolicy, err := services.ParseDurationPolicy(c.String("duration-policy"))
	if err != nil {
		return fmt.Errorf("--duration-policy: %w", err)
	}

	metric, err := geodesic.ParseMetric(c.String("metric"))
	if err != nil {
		return fmt.Errorf("--metric: %w", err)
	}

	clock := time.Now
	if raw := c.String("at"); raw != "" {
		at, err := dateparse.ParseIn(raw, loc)
		if err != nil {
			return fmt.Errorf("--at: %w", err)
		}
		clock = func() time.Time { return at }
	}

	store := services.NewSnapshotStore(source, services.SnapshotOptions{
		Build: services.BuildOptions{
			Policy:      edgePolicy,
			RoadSpeedKm: c.Float64("road-speed"),
			Metric:      metric,
		},
		Durations:   durationPolicy,
		StrictNodes: true,
		Clock:       clock,
	})
	snap, err := store.Rebuild(c.Context)
	if err != nil {
		return err
	}

	sourceID, targetID := domain.NodeID(c.String("from")), domain.NodeID(c.String("to"))
	route, err := services.NewRouteFinder(store, nil, 1).Find(c.Context, sourceID, targetID)
	if err != nil && !errors.Is(err, services.ErrRouteNotFound) {
		return err
	}

	var coverage []report.Coverage
	if c.Bool("stations") {
		for _, sc := range snap.Coverage {
			coverage = append(coverage, report.Coverage(sc))
		}
	}

	if c.Bool("json") {
		out := map[string]any{}
		if route != nil {
			out["route"] = report.Summarize(route)
		} else {
			out["not_found"] = report.Missing(sourceID, targetID)
		}
		if c.Bool("stations") {
			out["stations"] = coverage
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if route != nil {
		err = report.Summarize(route).WriteText(os.Stdout)
	} else {
		err = report.Missing(sourceID, targetID).WriteText(os.Stdout)
	}
	if err != nil {
		return err
	}
	if len(coverage) > 0 {
		fmt.Fprintln(os.Stdout)
		return report.WriteCoverageText(os.Stdout, coverage)
	}
	return nil
}

func sourceFromFlags(c *cli.Context, loc *time.Location) (ports.NetworkSource, error) {
	workbook, dir := c.String("workbook"), c.String("csv-dir")
	switch {
	case workbook != "" && dir != "":
		return nil, errors.New("use either --workbook or --csv-dir, not both")
	case workbook != "":
		return sheets.NewWorkbookSource(workbook, loc), nil
	case dir != "":
		return sheets.NewCSVDirSource(dir, loc), nil
	default:
		return nil, errors.New("one of --workbook or --csv-dir is required")
	}
}
