package services

import (
	"container/heap"
	"errors"
	"fmt"

	"freight-route-service/internal/domain"
)

var ErrRouteNotFound = errors.New("no route found")

// ShortestPath finds the minimum-hours route from source to target using Dijkstra's algorithm.
//
// It returns ErrRouteNotFound when either node is absent from the graph or no
// path connects them. A query from a node to itself yields a route with no
// segments and zero hours. Results are only optimal when all edge weights
// are non-negative; negative sea legs are traversed as-is.
//
// Each segment reports the metadata stored on the traversed edge, and
// TotalHours is the accumulated distance of target, which equals the
// left-to-right sum of the segment hours.
func ShortestPath(g *domain.RouteGraph, source, target domain.NodeID) (*domain.Route, error) {
	if g == nil {
		return nil, errors.New("shortest path: graph must be non-nil")
	}

	if !g.HasNode(source) || !g.HasNode(target) {
		return nil, fmt.Errorf("shortest path: %q -> %q: %w", source, target, ErrRouteNotFound)
	}

	if source == target {
		return &domain.Route{
			Source:     source,
			Target:     target,
			Segments:   []domain.RouteSegment{},
			TotalHours: 0,
		}, nil
	}

	dist := map[domain.NodeID]float64{source: 0}
	prev := make(map[domain.NodeID]domain.Edge)
	closed := make(map[domain.NodeID]bool)

	pq := &priorityQueue{}
	heap.Init(pq)
	seq := 0
	heap.Push(pq, &pqItem{node: source, priority: 0, seq: seq})

	for pq.Len() > 0 {
		item := heap.Pop(pq).(*pqItem)
		current := item.node

		if closed[current] {
			continue
		}
		closed[current] = true

		if current == target {
			break
		}

		for _, e := range g.OutEdges(current) {
			if closed[e.To] {
				continue
			}

			tentative := dist[current] + e.Hours
			if old, ok := dist[e.To]; !ok || tentative < old {
				dist[e.To] = tentative
				prev[e.To] = e

				seq++
				heap.Push(pq, &pqItem{node: e.To, priority: tentative, seq: seq})
			}
		}
	}

	if !closed[target] {
		return nil, fmt.Errorf("shortest path: %q -> %q: %w", source, target, ErrRouteNotFound)
	}

	return &domain.Route{
		Source:     source,
		Target:     target,
		Segments:   reconstructSegments(prev, source, target),
		TotalHours: dist[target],
	}, nil
}

func reconstructSegments(prev map[domain.NodeID]domain.Edge, source, target domain.NodeID) []domain.RouteSegment {
	var edges []domain.Edge
	for current := target; current != source; {
		e := prev[current]
		edges = append(edges, e)
		current = e.From
	}

	segments := make([]domain.RouteSegment, 0, len(edges))
	for i := len(edges) - 1; i >= 0; i-- {
		e := edges[i]
		segments = append(segments, domain.RouteSegment{
			From:        e.From,
			To:          e.To,
			Mode:        e.Mode,
			VoyageID:    e.VoyageID,
			ArrivalDate: e.ArrivalDate,
			Hours:       e.Hours,
		})
	}
	return segments
}

// Ties on priority are broken by push order so equal-cost searches are deterministic.
type pqItem struct {
	node     domain.NodeID
	priority float64
	seq      int
}

type priorityQueue []*pqItem

func (pq priorityQueue) Len() int { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].priority != pq[j].priority {
		return pq[i].priority < pq[j].priority
	}
	return pq[i].seq < pq[j].seq
}
func (pq priorityQueue) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *priorityQueue) Push(x any) {
	*pq = append(*pq, x.(*pqItem))
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]
	return item
}
