package sheets

import (
	"fmt"

	"freight-route-service/internal/domain"
)

type sheetSet struct {
	rail       *table
	sea        *table
	warehouses *table
	schedule   *table
}

func (s sheetSet) network(parser timestampParser) (*domain.Network, error) {
	var (
		rail       []railRecord
		sea        []seaRecord
		warehouses []warehouseRecord
	)

	if err := s.rail.decode(railColumns, &rail); err != nil {
		return nil, fmt.Errorf("decode rail segments: %w", err)
	}
	if err := s.sea.decode(seaColumns, &sea); err != nil {
		return nil, fmt.Errorf("decode sea routes: %w", err)
	}
	if err := s.warehouses.decode(warehouseColumns, &warehouses); err != nil {
		return nil, fmt.Errorf("decode warehouses: %w", err)
	}
	schedule, err := decodeSchedule(s.schedule, parser)
	if err != nil {
		return nil, fmt.Errorf("decode schedule: %w", err)
	}

	return &domain.Network{
		RailSegments: toRailSegments(rail),
		SeaRoutes:    toSeaRoutes(sea),
		Warehouses:   toWarehouses(warehouses),
		Schedule:     schedule,
	}, nil
}
