package domain

import (
	"fmt"
	"strings"
)

// Transport mode of a leg.
type Mode string

const (
	ModeRail Mode = "rail"
	ModeSea  Mode = "sea"
	ModeRoad Mode = "road"
)

// A directed, weighted leg of the route graph.
// VoyageID and ArrivalDate are set for sea legs only; DistanceKm for road legs only.
type Edge struct {
	From        NodeID
	To          NodeID
	Hours       float64
	Mode        Mode
	VoyageID    string
	ArrivalDate string
	DistanceKm  float64
}

// How AddEdge treats a second edge for an ordered pair that already has one.
type EdgePolicy int

const (
	// The later edge replaces the earlier one, weight and metadata alike.
	// This is the established insertion semantics of the builder.
	LastWriteWins EdgePolicy = iota
	// Every edge is kept as a parallel edge; queries use the cheapest one
	// (the first inserted among equal weights).
	KeepAll
)

func (p EdgePolicy) String() string {
	switch p {
	case LastWriteWins:
		return "last-write-wins"
	case KeepAll:
		return "keep-all"
	default:
		return fmt.Sprintf("EdgePolicy(%d)", int(p))
	}
}

// ParseEdgePolicy accepts "last-write-wins" (or "lww") and "keep-all" (or "min-weight").
func ParseEdgePolicy(s string) (EdgePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "last-write-wins", "lww":
		return LastWriteWins, nil
	case "keep-all", "min-weight":
		return KeepAll, nil
	default:
		return 0, fmt.Errorf("parse edge policy: unknown policy %q", s)
	}
}

// Directed multigraph over location names.
//
// Nodes and neighbours are kept in insertion order so that traversals are
// deterministic for identical inputs. A RouteGraph is built once and then only read;
// it is not safe for concurrent mutation.
type RouteGraph struct {
	policy EdgePolicy

	nodes []NodeID
	seen  map[NodeID]struct{}

	// adjacency in first-insertion order of the neighbour
	adj   map[NodeID][]NodeID
	edges map[NodeID]map[NodeID][]Edge
}

func NewRouteGraph(policy EdgePolicy) *RouteGraph {
	return &RouteGraph{
		policy: policy,
		seen:   make(map[NodeID]struct{}),
		adj:    make(map[NodeID][]NodeID),
		edges:  make(map[NodeID]map[NodeID][]Edge),
	}
}

func (g *RouteGraph) addNode(id NodeID) {
	if _, ok := g.seen[id]; ok {
		return
	}
	g.seen[id] = struct{}{}
	g.nodes = append(g.nodes, id)
}

// AddEdge inserts e, adding both endpoints as nodes, and merges it with any
// existing edge for (e.From, e.To) according to the graph's policy.
func (g *RouteGraph) AddEdge(e Edge) {
	g.addNode(e.From)
	g.addNode(e.To)

	out, ok := g.edges[e.From]
	if !ok {
		out = make(map[NodeID][]Edge)
		g.edges[e.From] = out
	}

	existing, ok := out[e.To]
	if !ok {
		g.adj[e.From] = append(g.adj[e.From], e.To)
	}

	if g.policy == KeepAll {
		out[e.To] = append(existing, e)
		return
	}
	out[e.To] = []Edge{e}
}

func (g *RouteGraph) HasNode(id NodeID) bool {
	_, ok := g.seen[id]
	return ok
}

// Nodes returns all node IDs in insertion order.
func (g *RouteGraph) Nodes() []NodeID {
	out := make([]NodeID, len(g.nodes))
	copy(out, g.nodes)
	return out
}

func (g *RouteGraph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of stored edges, parallel edges included.
func (g *RouteGraph) EdgeCount() int {
	n := 0
	for _, out := range g.edges {
		for _, es := range out {
			n += len(es)
		}
	}
	return n
}

// Edge returns the edge used for routing from -> to: the only edge under
// LastWriteWins, the cheapest parallel edge under KeepAll.
func (g *RouteGraph) Edge(from, to NodeID) (Edge, bool) {
	es := g.edges[from][to]
	if len(es) == 0 {
		return Edge{}, false
	}

	best := es[0]
	for _, e := range es[1:] {
		if e.Hours < best.Hours {
			best = e
		}
	}
	return best, true
}

// ParallelEdges returns every stored edge from -> to in insertion order.
func (g *RouteGraph) ParallelEdges(from, to NodeID) []Edge {
	es := g.edges[from][to]
	out := make([]Edge, len(es))
	copy(out, es)
	return out
}

// OutEdges returns the routing edge to each neighbour of id, neighbours in insertion order.
func (g *RouteGraph) OutEdges(id NodeID) []Edge {
	neighbours := g.adj[id]
	out := make([]Edge, 0, len(neighbours))
	for _, to := range neighbours {
		if e, ok := g.Edge(id, to); ok {
			out = append(out, e)
		}
	}
	return out
}
