package domain

// Represents one traversed leg of a planned route.
// VoyageID and ArrivalDate are copied from the stored edge and are empty
// for rail and road legs.
type RouteSegment struct {
	From        NodeID
	To          NodeID
	Mode        Mode
	VoyageID    string
	ArrivalDate string
	Hours       float64
}

// Represents the fastest route between two nodes.
// TotalHours is the solver's path length and equals the sum of segment hours.
// A route from a node to itself has no segments and zero hours.
type Route struct {
	Source     NodeID
	Target     NodeID
	Segments   []RouteSegment
	TotalHours float64
}
