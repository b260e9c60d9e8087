package handlers

import (
	"net/http"

	"freight-route-service/internal/api/dto"
	"freight-route-service/internal/platform/obs"
	"freight-route-service/internal/report"
	"freight-route-service/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type NetworkHandler struct {
	Snapshots *services.SnapshotStore
}

func networkResponse(snap *services.Snapshot) dto.NetworkResponse {
	return dto.NetworkResponse{
		Version:       snap.Version,
		ReferenceTime: snap.ReferenceTime,
		BuiltAt:       snap.BuiltAt,
		Counts: dto.NetworkCounts{
			RailSegments:     snap.Counts.RailSegments,
			SeaRoutes:        snap.Counts.SeaRoutes,
			Warehouses:       snap.Counts.Warehouses,
			ScheduleRows:     snap.Counts.ScheduleRows,
			SeaEdges:         snap.Counts.SeaEdges,
			NegativeSeaEdges: snap.Counts.NegativeSeaEdges,
			Nodes:            snap.Counts.Nodes,
			Edges:            snap.Counts.Edges,
		},
	}
}

// Summary describes the snapshot currently serving queries.
func (h *NetworkHandler) Summary(c *gin.Context) {
	snap := h.Snapshots.Current()
	if snap == nil {
		writeError(c, http.StatusServiceUnavailable, services.ErrNoSnapshot.Error())
		return
	}
	writeJSON(c, http.StatusOK, networkResponse(snap))
}

// Stations lists the nearest warehouse for every rail destination station.
func (h *NetworkHandler) Stations(c *gin.Context) {
	snap := h.Snapshots.Current()
	if snap == nil {
		writeError(c, http.StatusServiceUnavailable, services.ErrNoSnapshot.Error())
		return
	}

	resp := dto.StationCoverageResponse{Stations: make([]report.Coverage, 0, len(snap.Coverage))}
	for _, sc := range snap.Coverage {
		resp.Stations = append(resp.Stations, report.Coverage{
			Origin:         sc.Origin,
			Station:        sc.Station,
			Warehouse:      sc.Warehouse,
			DistanceKm:     sc.DistanceKm,
			DriveTimeHours: sc.DriveTimeHours,
		})
	}
	writeJSON(c, http.StatusOK, resp)
}

// Rebuild reloads the network and publishes a fresh snapshot.
func (h *NetworkHandler) Rebuild(c *gin.Context) {
	snap, err := h.Snapshots.Rebuild(c.Request.Context())
	if err != nil {
		log.Error().Str("req_id", obs.RequestID(c.Request.Context())).Err(err).Msg("Manual snapshot rebuild failed")
		writeError(c, http.StatusBadGateway, "rebuild failed: "+err.Error())
		return
	}
	writeJSON(c, http.StatusOK, networkResponse(snap))
}
