package sheets

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"freight-route-service/internal/domain"
	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"
)

// A sheet read into memory: a header row followed by data rows.
// Both workbook sheets and CSV files are decoded from this shape.
type table struct {
	name   string
	header []string
	rows   [][]string
}

func newTable(name string, raw [][]string) (*table, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("sheet %q: no header row", name)
	}

	header := make([]string, len(raw[0]))
	for i, h := range raw[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	rows := make([][]string, 0, len(raw)-1)
	for _, r := range raw[1:] {
		if blankRow(r) {
			continue
		}
		padded := make([]string, len(header))
		copy(padded, r)
		rows = append(rows, padded)
	}

	return &table{name: name, header: header, rows: rows}, nil
}

func blankRow(r []string) bool {
	for _, c := range r {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func (t *table) require(columns []string) error {
	have := make(map[string]bool, len(t.header))
	for _, h := range t.header {
		have[h] = true
	}
	for _, c := range columns {
		if !have[c] {
			return fmt.Errorf("sheet %q: missing column %q", t.name, c)
		}
	}
	return nil
}

// tableReader feeds a table to gocsv.
type tableReader struct {
	t    *table
	next int
}

func (r *tableReader) Read() ([]string, error) {
	if r.next == 0 {
		r.next++
		return r.t.header, nil
	}
	i := r.next - 1
	if i >= len(r.t.rows) {
		return nil, io.EOF
	}
	r.next++
	return r.t.rows[i], nil
}

func (r *tableReader) ReadAll() ([][]string, error) {
	var out [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
}

// decode unmarshals the table into out, a pointer to a slice of tagged structs.
func (t *table) decode(columns []string, out any) error {
	if err := t.require(columns); err != nil {
		return err
	}
	err := gocsv.UnmarshalCSV(&tableReader{t: t}, out)
	if err != nil && !(len(t.rows) == 0 && errors.Is(err, gocsv.ErrEmptyCSVFile)) {
		return fmt.Errorf("sheet %q: %w", t.name, err)
	}
	return nil
}

// decodeSchedule turns a schedule table into rows with explicit port timings.
// Unreadable timestamps are left absent and counted.
func decodeSchedule(t *table, parser timestampParser) ([]domain.ScheduleRow, error) {
	if err := t.require(scheduleColumns); err != nil {
		return nil, err
	}

	type timingColumn struct {
		idx  int
		port string
		kind domain.TimeKind
	}

	voyageIdx := -1
	var timings []timingColumn
	for i, h := range t.header {
		if h == domain.VoyageColumn {
			voyageIdx = i
			continue
		}
		if port, kind, ok := domain.ParseScheduleColumn(h); ok {
			timings = append(timings, timingColumn{idx: i, port: port, kind: kind})
		}
	}

	malformed := 0
	out := make([]domain.ScheduleRow, 0, len(t.rows))
	for _, r := range t.rows {
		row := domain.NewScheduleRow(strings.TrimSpace(r[voyageIdx]))
		for _, c := range timings {
			raw := strings.TrimSpace(r[c.idx])
			if raw == "" {
				continue
			}
			at, err := parser.parse(raw)
			if err != nil {
				malformed++
				continue
			}
			row.SetTime(c.port, c.kind, at)
		}
		out = append(out, row)
	}

	if malformed > 0 {
		log.Debug().Str("sheet", t.name).Int("count", malformed).Msg("Unreadable schedule timestamps left empty")
	}

	return out, nil
}
