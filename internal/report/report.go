// Package report turns solver results into the two externally visible
// payloads: a route summary on success and a not-found record otherwise.
package report

import (
	"fmt"
	"io"
	"math"

	"freight-route-service/internal/domain"
)

// Placeholder for metadata a leg does not carry (rail and road legs have no voyage).
const NotAvailable = "N/A"

const NotFoundMessage = "no route found"

type Segment struct {
	From        string  `json:"from"`
	To          string  `json:"to"`
	Mode        string  `json:"mode"`
	Voyage      string  `json:"voyage"`
	ArrivalDate string  `json:"arrival_date"`
	Hours       float64 `json:"hours"`
}

type Summary struct {
	Source     string    `json:"source"`
	Target     string    `json:"target"`
	TotalHours float64   `json:"total_hours"`
	Segments   []Segment `json:"segments"`
}

type NotFound struct {
	Source  string `json:"source"`
	Target  string `json:"target"`
	Message string `json:"message"`
}

func orNA(s string) string {
	if s == "" {
		return NotAvailable
	}
	return s
}

// Summarize converts a solved route. Segment order and hours are kept as solved.
func Summarize(route *domain.Route) Summary {
	s := Summary{
		Source:     string(route.Source),
		Target:     string(route.Target),
		TotalHours: route.TotalHours,
		Segments:   make([]Segment, 0, len(route.Segments)),
	}
	for _, seg := range route.Segments {
		s.Segments = append(s.Segments, Segment{
			From:        string(seg.From),
			To:          string(seg.To),
			Mode:        string(seg.Mode),
			Voyage:      orNA(seg.VoyageID),
			ArrivalDate: orNA(seg.ArrivalDate),
			Hours:       seg.Hours,
		})
	}
	return s
}

func Missing(source, target domain.NodeID) NotFound {
	return NotFound{Source: string(source), Target: string(target), Message: NotFoundMessage}
}

func formatHours(h float64) string {
	if h == math.Trunc(h) {
		return fmt.Sprintf("%.0f", h)
	}
	return fmt.Sprintf("%.2f", h)
}

// WriteText prints the summary as one headline and one line per segment.
func (s Summary) WriteText(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Fastest route from %s to %s takes %s hours.\n", s.Source, s.Target, formatHours(s.TotalHours)); err != nil {
		return err
	}
	for i, seg := range s.Segments {
		_, err := fmt.Fprintf(w, "%d. %s -> %s (%s), voyage %s, arrival %s, %s h\n",
			i+1, seg.From, seg.To, seg.Mode, seg.Voyage, seg.ArrivalDate, formatHours(seg.Hours))
		if err != nil {
			return err
		}
	}
	return nil
}

func (n NotFound) WriteText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "Route from %s to %s: %s.\n", n.Source, n.Target, n.Message)
	return err
}

// Coverage row of the station report.
type Coverage struct {
	Origin         string  `json:"origin"`
	Station        string  `json:"station"`
	Warehouse      string  `json:"nearest_warehouse"`
	DistanceKm     float64 `json:"distance_km"`
	DriveTimeHours float64 `json:"drive_time_hours"`
}

func WriteCoverageText(w io.Writer, rows []Coverage) error {
	for _, r := range rows {
		_, err := fmt.Fprintf(w, "%s -> %s: nearest warehouse %s, %.1f km, %.2f h by road\n",
			r.Origin, r.Station, r.Warehouse, r.DistanceKm, r.DriveTimeHours)
		if err != nil {
			return err
		}
	}
	return nil
}
