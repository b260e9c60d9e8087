package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"freight-route-service/internal/api/dto"
	"freight-route-service/internal/domain"
	"freight-route-service/internal/platform/obs"
	"freight-route-service/internal/report"
	"freight-route-service/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const DefaultMaxBatch = 100

type RouteHandler struct {
	Finder   *services.RouteFinder
	MaxBatch int
}

// Get answers a single fastest-route query given as ?from=&to=.
func (h *RouteHandler) Get(c *gin.Context) {
	from := strings.TrimSpace(c.Query("from"))
	to := strings.TrimSpace(c.Query("to"))
	if from == "" || to == "" {
		writeError(c, http.StatusBadRequest, "from and to are required")
		return
	}

	source, target := domain.NodeID(from), domain.NodeID(to)
	route, err := h.Finder.Find(c.Request.Context(), source, target)
	switch {
	case err == nil:
		writeJSON(c, http.StatusOK, report.Summarize(route))
	case errors.Is(err, services.ErrRouteNotFound):
		writeJSON(c, http.StatusNotFound, report.Missing(source, target))
	case errors.Is(err, services.ErrNoSnapshot):
		writeError(c, http.StatusServiceUnavailable, err.Error())
	default:
		log.Error().Str("req_id", obs.RequestID(c.Request.Context())).Err(err).Str("from", from).Str("to", to).Msg("Route query failed")
		writeError(c, http.StatusInternalServerError, "failed to compute route")
	}
}

// Batch answers many queries at once. Results keep the order of the request.
func (h *RouteHandler) Batch(c *gin.Context) {
	var req dto.BatchRouteRequest

	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(c, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	maxBatch := h.MaxBatch
	if maxBatch <= 0 {
		maxBatch = DefaultMaxBatch
	}
	if len(req.Queries) == 0 {
		writeError(c, http.StatusBadRequest, "queries must not be empty")
		return
	}
	if len(req.Queries) > maxBatch {
		writeError(c, http.StatusBadRequest, fmt.Sprintf("at most %d queries per batch", maxBatch))
		return
	}

	pairs := make([]services.RoutePair, 0, len(req.Queries))
	for i, q := range req.Queries {
		from, to := strings.TrimSpace(q.From), strings.TrimSpace(q.To)
		if from == "" || to == "" {
			writeError(c, http.StatusBadRequest, fmt.Sprintf("queries[%d]: from and to are required", i))
			return
		}
		pairs = append(pairs, services.RoutePair{Source: domain.NodeID(from), Target: domain.NodeID(to)})
	}

	results := h.Finder.FindMany(c.Request.Context(), pairs)

	resp := dto.BatchRouteResponse{Results: make([]dto.BatchRouteItem, 0, len(results))}
	for _, r := range results {
		item := dto.BatchRouteItem{From: string(r.Pair.Source), To: string(r.Pair.Target)}
		switch {
		case r.Err == nil:
			summary := report.Summarize(r.Route)
			item.Found = true
			item.Route = &summary
		case errors.Is(r.Err, services.ErrRouteNotFound):
			missing := report.Missing(r.Pair.Source, r.Pair.Target)
			item.NotFound = &missing
		case errors.Is(r.Err, services.ErrNoSnapshot):
			writeError(c, http.StatusServiceUnavailable, r.Err.Error())
			return
		default:
			item.Error = "failed to compute route"
		}
		resp.Results = append(resp.Results, item)
	}

	writeJSON(c, http.StatusOK, resp)
}
