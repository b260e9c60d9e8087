package domain

import (
	"strings"
	"time"
)

// Column carrying the voyage identifier in a schedule sheet.
const VoyageColumn = "VOY.NO."

// Suffixes of the per-port timing columns: "<port> ETD" and "<port> ETA".
const (
	DepartureSuffix = " ETD"
	ArrivalSuffix   = " ETA"
)

type TimeKind int

const (
	Departure TimeKind = iota + 1
	Arrival
)

// ParseScheduleColumn splits a schedule header into its port name and timing kind.
// Headers that do not follow the "<port> ETD" / "<port> ETA" convention return ok=false.
func ParseScheduleColumn(header string) (port string, kind TimeKind, ok bool) {
	switch {
	case strings.HasSuffix(header, DepartureSuffix):
		port, kind = strings.TrimSuffix(header, DepartureSuffix), Departure
	case strings.HasSuffix(header, ArrivalSuffix):
		port, kind = strings.TrimSuffix(header, ArrivalSuffix), Arrival
	default:
		return "", 0, false
	}

	if port == "" {
		return "", 0, false
	}
	return port, kind, true
}

// NewScheduleRow returns an empty row for the given voyage.
func NewScheduleRow(voyage string) ScheduleRow {
	return ScheduleRow{Voyage: voyage, Ports: map[string]PortTimes{}}
}

// SetTime records a departure or arrival instant for port.
func (r *ScheduleRow) SetTime(port string, kind TimeKind, t time.Time) {
	if r.Ports == nil {
		r.Ports = map[string]PortTimes{}
	}

	pt := r.Ports[port]
	switch kind {
	case Departure:
		pt.ETD = &t
	case Arrival:
		pt.ETA = &t
	default:
		return
	}
	r.Ports[port] = pt
}
