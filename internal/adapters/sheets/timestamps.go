package sheets

import (
	"fmt"
	"strconv"
	"time"

	"github.com/araddon/dateparse"
	"github.com/xuri/excelize/v2"
)

// Schedule cells hold either an Excel serial date (raw workbook values, or a
// number pasted into a CSV) or a date/time string in any common layout.
// Both are read as wall-clock time in loc.
type timestampParser struct {
	loc      *time.Location
	date1904 bool
}

func newTimestampParser(loc *time.Location) timestampParser {
	if loc == nil {
		loc = time.UTC
	}
	return timestampParser{loc: loc}
}

// Largest serial Excel can represent (9999-12-31).
const maxExcelSerial = 2958465

// Numbers outside Excel's serial range, such as 20240105 or Unix seconds,
// are left to dateparse.
func (p timestampParser) parse(raw string) (time.Time, error) {
	if serial, err := strconv.ParseFloat(raw, 64); err == nil && serial > 0 && serial <= maxExcelSerial {
		return p.fromSerial(serial)
	}

	t, err := dateparse.ParseIn(raw, p.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", raw, err)
	}
	return t, nil
}

func (p timestampParser) fromSerial(serial float64) (time.Time, error) {
	if serial <= 0 {
		return time.Time{}, fmt.Errorf("parse timestamp: serial %v out of range", serial)
	}

	utc, err := excelize.ExcelDateToTime(serial, p.date1904)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp: serial %v: %w", serial, err)
	}

	// Serials are fractions of a day; float error lands below a second.
	utc = utc.Round(time.Second)

	// Serial dates carry no zone; keep the wall clock and attach loc.
	return time.Date(utc.Year(), utc.Month(), utc.Day(), utc.Hour(), utc.Minute(), utc.Second(), utc.Nanosecond(), p.loc), nil
}
