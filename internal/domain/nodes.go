package domain

import (
	"errors"
	"fmt"
)

// Identifier of a route graph node. Cities, ports, stations and warehouses
// share one flat namespace.
type NodeID string

var ErrConflictingNode = errors.New("conflicting node")

type nodeKind string

const (
	nodeStation   nodeKind = "rail station"
	nodeWarehouse nodeKind = "warehouse"
)

type indexedNode struct {
	kind   nodeKind
	coords Coordinates
}

// Validate checks the located names of the network (rail stations and warehouses).
// A name may appear many times only if every occurrence points at the same place;
// otherwise the two records describe different locations under one node and
// Validate returns ErrConflictingNode.
//
// Unlocated names (rail origins, ports) are not checked: they carry no coordinates.
func (n *Network) Validate() error {
	index := make(map[NodeID]indexedNode, len(n.RailSegments)+len(n.Warehouses))

	add := func(name string, kind nodeKind, c Coordinates) error {
		id := NodeID(name)
		prev, ok := index[id]
		if !ok {
			index[id] = indexedNode{kind: kind, coords: c}
			return nil
		}
		if !prev.coords.SamePlace(c) {
			return fmt.Errorf(
				"validate network: %q as %s at (%.5f, %.5f) and %s at (%.5f, %.5f): %w",
				name, prev.kind, prev.coords.Lat, prev.coords.Lon, kind, c.Lat, c.Lon, ErrConflictingNode,
			)
		}
		return nil
	}

	for _, rs := range n.RailSegments {
		if err := add(rs.Station, nodeStation, rs.StationCoords); err != nil {
			return err
		}
	}
	for _, w := range n.Warehouses {
		if err := add(w.Name, nodeWarehouse, w.Coordinates); err != nil {
			return err
		}
	}

	return nil
}
