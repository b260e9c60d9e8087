package sheets

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"freight-route-service/internal/domain"
	"freight-route-service/internal/platform/obs"
)

// Loads the network from a directory holding rail.csv, sea.csv,
// warehouses.csv and schedule.csv with the workbook's column headers.
type CSVDirSource struct {
	Dir      string
	Location *time.Location
}

func NewCSVDirSource(dir string, loc *time.Location) *CSVDirSource {
	return &CSVDirSource{Dir: dir, Location: loc}
}

func (s *CSVDirSource) LoadNetwork(ctx context.Context) (*domain.Network, error) {
	return LoadCSVDir(ctx, s.Dir, s.Location)
}

func LoadCSVDir(ctx context.Context, dir string, loc *time.Location) (net *domain.Network, err error) {
	defer obs.Time(ctx, "sheets.LoadCSVDir")(&err)

	read := func(file string) (*table, error) {
		return readCSVTable(filepath.Join(dir, file))
	}

	var set sheetSet
	if set.rail, err = read(RailFile); err != nil {
		return nil, err
	}
	if set.sea, err = read(SeaFile); err != nil {
		return nil, err
	}
	if set.warehouses, err = read(WarehouseFile); err != nil {
		return nil, err
	}
	if set.schedule, err = read(ScheduleFile); err != nil {
		return nil, err
	}

	net, err = set.network(newTimestampParser(loc))
	if err != nil {
		return nil, fmt.Errorf("load csv dir %s: %w", dir, err)
	}
	return net, nil
}

func readCSVTable(path string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	raw, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return newTable(filepath.Base(path), raw)
}
