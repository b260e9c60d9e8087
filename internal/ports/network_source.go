package ports

import (
	"context"
	"freight-route-service/internal/domain"
)

// Port: a boundary for loading the record sets a route graph is built from.
// Implementations read a workbook, a CSV directory or a SQL database.
type NetworkSource interface {
	// Load rail segments, sea routes, warehouses and the sailing schedule.
	LoadNetwork(ctx context.Context) (*domain.Network, error)
}
