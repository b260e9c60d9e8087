package domain

import "time"

// A rail leg from an origin city to a destination station with a fixed transit time.
// Only the destination station carries coordinates; it is the candidate set
// used when attaching warehouses to the rail network.
type RailSegment struct {
	Origin        string
	Station       string
	StationCoords Coordinates
	TransitHours  float64
}

// A sea lane between two ports. Timing comes from the schedule, not the route.
type SeaRoute struct {
	Origin      string
	Destination string
}

// Final destination facility of a door-to-door route.
type Warehouse struct {
	Name        string
	Coordinates Coordinates
}

func (w Warehouse) Location() Location {
	return Location{Name: w.Name, Coordinates: w.Coordinates}
}

// Departure and arrival instants of one voyage at one port. Either may be nil
// when the schedule has no (or an unreadable) value for that port.
type PortTimes struct {
	ETD *time.Time
	ETA *time.Time
}

// One vessel's multi-port itinerary.
// Ports maps a port name to its timing on this voyage.
type ScheduleRow struct {
	Voyage string
	Ports  map[string]PortTimes
}

// Departure returns the ETD at port, if the row has one.
func (r ScheduleRow) Departure(port string) (time.Time, bool) {
	pt, ok := r.Ports[port]
	if !ok || pt.ETD == nil {
		return time.Time{}, false
	}
	return *pt.ETD, true
}

// Arrival returns the ETA at port, if the row has one.
func (r ScheduleRow) Arrival(port string) (time.Time, bool) {
	pt, ok := r.Ports[port]
	if !ok || pt.ETA == nil {
		return time.Time{}, false
	}
	return *pt.ETA, true
}

// The four record sets a route graph is built from.
// A Network is loaded once per build and never mutated afterwards.
type Network struct {
	RailSegments []RailSegment
	SeaRoutes    []SeaRoute
	Warehouses   []Warehouse
	Schedule     []ScheduleRow
}
