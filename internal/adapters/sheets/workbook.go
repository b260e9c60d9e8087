package sheets

import (
	"context"
	"fmt"
	"time"

	"freight-route-service/internal/domain"
	"freight-route-service/internal/platform/obs"
	"github.com/xuri/excelize/v2"
)

// Loads the network from the four sheets of one xlsx workbook.
type WorkbookSource struct {
	Path     string
	Location *time.Location
}

func NewWorkbookSource(path string, loc *time.Location) *WorkbookSource {
	return &WorkbookSource{Path: path, Location: loc}
}

func (s *WorkbookSource) LoadNetwork(ctx context.Context) (*domain.Network, error) {
	return LoadWorkbook(ctx, s.Path, s.Location)
}

func LoadWorkbook(ctx context.Context, path string, loc *time.Location) (net *domain.Network, err error) {
	defer obs.Time(ctx, "sheets.LoadWorkbook")(&err)

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("load workbook: open %s: %w", path, err)
	}
	defer f.Close()

	parser := newTimestampParser(loc)
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		parser.date1904 = *props.Date1904
	}

	read := func(sheet string) (*table, error) {
		// Raw values keep dates as serial numbers instead of display strings.
		rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("load workbook: sheet %q: %w", sheet, err)
		}
		return newTable(sheet, rows)
	}

	var set sheetSet
	if set.rail, err = read(RailSheet); err != nil {
		return nil, err
	}
	if set.sea, err = read(SeaSheet); err != nil {
		return nil, err
	}
	if set.warehouses, err = read(WarehouseSheet); err != nil {
		return nil, err
	}
	if set.schedule, err = read(ScheduleSheet); err != nil {
		return nil, err
	}

	net, err = set.network(parser)
	if err != nil {
		return nil, fmt.Errorf("load workbook %s: %w", path, err)
	}
	return net, nil
}
