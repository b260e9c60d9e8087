package services

import (
	"fmt"
	"strings"
	"time"

	"freight-route-service/internal/domain"
)

// Display format of sea-leg arrival dates. Dates carry no time zone.
const ArrivalDateLayout = "2006-01-02"

// How the resolver treats a voyage whose ETA precedes its ETD.
type DurationPolicy int

const (
	// Negative durations become negative edge weights, unchanged.
	PassThrough DurationPolicy = iota
	// Rows with a negative duration do not qualify.
	RejectNegative
	// Negative durations are raised to zero hours.
	ClampNegative
)

func (p DurationPolicy) String() string {
	switch p {
	case PassThrough:
		return "passthrough"
	case RejectNegative:
		return "reject"
	case ClampNegative:
		return "clamp"
	default:
		return fmt.Sprintf("DurationPolicy(%d)", int(p))
	}
}

func ParseDurationPolicy(s string) (DurationPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "passthrough":
		return PassThrough, nil
	case "reject":
		return RejectNegative, nil
	case "clamp":
		return ClampNegative, nil
	default:
		return 0, fmt.Errorf("parse duration policy: unknown policy %q", s)
	}
}

// A sea leg derived from one schedule row for one sea route.
type SeaEdge struct {
	Origin      string
	Destination string
	Hours       float64
	VoyageID    string
	ArrivalDate string
}

// ResolveSeaEdges derives sea legs for voyages departing at or after now.
//
// A row qualifies for route (o, d) when it has a departure time at o and an
// arrival time at d and that departure is not before now. One edge is emitted
// per qualifying (route, row) pair, routes in order and rows in order within
// each route; duplicates for the same port pair are all kept here and
// collapsed later by the graph's edge policy.
func ResolveSeaEdges(
	routes []domain.SeaRoute,
	schedule []domain.ScheduleRow,
	now time.Time,
	policy DurationPolicy,
) []SeaEdge {
	edges := make([]SeaEdge, 0, len(routes))

	for _, route := range routes {
		for _, row := range schedule {
			etd, ok := row.Departure(route.Origin)
			if !ok {
				continue
			}
			eta, ok := row.Arrival(route.Destination)
			if !ok {
				continue
			}
			if etd.Before(now) {
				continue
			}

			hours := eta.Sub(etd).Seconds() / 3600
			if hours < 0 {
				switch policy {
				case RejectNegative:
					continue
				case ClampNegative:
					hours = 0
				}
			}

			edges = append(edges, SeaEdge{
				Origin:      route.Origin,
				Destination: route.Destination,
				Hours:       hours,
				VoyageID:    row.Voyage,
				ArrivalDate: eta.Format(ArrivalDateLayout),
			})
		}
	}

	return edges
}
