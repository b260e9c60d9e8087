package services

import (
	"testing"
	"time"

	"freight-route-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSeaEdges(t *testing.T) {
	net := sampleNetwork()

	t.Run("emits one edge per qualifying route and row, in order", func(t *testing.T) {
		edges := ResolveSeaEdges(net.SeaRoutes, net.Schedule, at(1, 0), PassThrough)
		require.Len(t, edges, 3)

		assert.Equal(t, SeaEdge{Origin: "Shanghai", Destination: "Vladivostok", Hours: 72, VoyageID: "V1", ArrivalDate: "2024-01-08"}, edges[0])
		assert.Equal(t, SeaEdge{Origin: "Shanghai", Destination: "Pusan", Hours: 36, VoyageID: "V1", ArrivalDate: "2024-01-06"}, edges[1])
		assert.Equal(t, SeaEdge{Origin: "Shanghai", Destination: "Pusan", Hours: 48, VoyageID: "V2", ArrivalDate: "2024-01-12"}, edges[2])
	})

	t.Run("departures before the reference instant never qualify", func(t *testing.T) {
		edges := ResolveSeaEdges(net.SeaRoutes, net.Schedule, at(6, 0), PassThrough)
		require.Len(t, edges, 1)
		assert.Equal(t, "V2", edges[0].VoyageID)
	})

	t.Run("departure exactly at the reference instant qualifies", func(t *testing.T) {
		edges := ResolveSeaEdges(net.SeaRoutes, net.Schedule, at(10, 0), PassThrough)
		require.Len(t, edges, 1)
		assert.Equal(t, "V2", edges[0].VoyageID)
	})

	t.Run("rows missing either timestamp are skipped", func(t *testing.T) {
		onlyETD := domain.NewScheduleRow("V9")
		onlyETD.SetTime("Shanghai", domain.Departure, at(20, 0))

		edges := ResolveSeaEdges([]domain.SeaRoute{{Origin: "Shanghai", Destination: "Pusan"}}, []domain.ScheduleRow{onlyETD}, at(1, 0), PassThrough)
		assert.Empty(t, edges)
	})
}

func TestResolveSeaEdgesNegativeDuration(t *testing.T) {
	inverted := domain.NewScheduleRow("VX")
	inverted.SetTime("Shanghai", domain.Departure, at(10, 0))
	inverted.SetTime("Pusan", domain.Arrival, at(9, 0))

	routes := []domain.SeaRoute{{Origin: "Shanghai", Destination: "Pusan"}}
	schedule := []domain.ScheduleRow{inverted}

	t.Run("passthrough keeps the negative weight", func(t *testing.T) {
		edges := ResolveSeaEdges(routes, schedule, at(1, 0), PassThrough)
		require.Len(t, edges, 1)
		assert.Equal(t, -24.0, edges[0].Hours)
	})

	t.Run("reject drops the row", func(t *testing.T) {
		assert.Empty(t, ResolveSeaEdges(routes, schedule, at(1, 0), RejectNegative))
	})

	t.Run("clamp raises to zero", func(t *testing.T) {
		edges := ResolveSeaEdges(routes, schedule, at(1, 0), ClampNegative)
		require.Len(t, edges, 1)
		assert.Equal(t, 0.0, edges[0].Hours)
	})
}

func TestResolveSeaEdgesArrivalDateKeepsLocalDay(t *testing.T) {
	loc := time.FixedZone("MSK", 3*3600)

	r := domain.NewScheduleRow("V3")
	r.SetTime("Pusan", domain.Departure, time.Date(2024, 3, 1, 8, 0, 0, 0, loc))
	r.SetTime("Vladivostok", domain.Arrival, time.Date(2024, 3, 3, 1, 30, 0, 0, loc))

	edges := ResolveSeaEdges([]domain.SeaRoute{{Origin: "Pusan", Destination: "Vladivostok"}}, []domain.ScheduleRow{r}, time.Time{}, PassThrough)
	require.Len(t, edges, 1)
	assert.Equal(t, "2024-03-03", edges[0].ArrivalDate)
	assert.Equal(t, 41.5, edges[0].Hours)
}

func TestParseDurationPolicy(t *testing.T) {
	for in, want := range map[string]DurationPolicy{"": PassThrough, "passthrough": PassThrough, "REJECT": RejectNegative, "clamp": ClampNegative} {
		got, err := ParseDurationPolicy(in)
		require.NoError(t, err)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseDurationPolicy("abs")
	assert.Error(t, err)
}
