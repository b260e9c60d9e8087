package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"freight-route-service/internal/adapters/geodesic"
	"freight-route-service/internal/api/dto"
	"freight-route-service/internal/domain"
	"freight-route-service/internal/report"
	"freight-route-service/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	net *domain.Network
	err error
}

func (f *fakeSource) LoadNetwork(context.Context) (*domain.Network, error) {
	return f.net, f.err
}

func corridor() *domain.Network {
	return &domain.Network{
		RailSegments: []domain.RailSegment{
			{Origin: "Vladivostok", Station: "Moscow-Tovarnaya", StationCoords: domain.Coordinates{Lat: 55.7558, Lon: 37.6173}, TransitHours: 200},
		},
		Warehouses: []domain.Warehouse{
			{Name: "WH Podolsk", Coordinates: domain.Coordinates{Lat: 55.4242, Lon: 37.5547}},
		},
	}
}

func newTestServer(t *testing.T, src *fakeSource, build bool) (http.Handler, *services.SnapshotStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := services.NewSnapshotStore(src, services.SnapshotOptions{
		Build: services.BuildOptions{Metric: geodesic.NewWGS84()},
	})
	if build {
		_, err := store.Rebuild(context.Background())
		require.NoError(t, err)
	}

	h := NewRouter(Deps{
		Finder:    services.NewRouteFinder(store, nil, 2),
		Snapshots: store,
		MaxBatch:  3,
	})
	return h, store
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealthAndReady(t *testing.T) {
	h, _ := newTestServer(t, &fakeSource{net: corridor()}, false)

	w := do(h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = do(h, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestGetRouteFound(t *testing.T) {
	h, _ := newTestServer(t, &fakeSource{net: corridor()}, true)

	w := do(h, http.MethodGet, "/routes?from=Vladivostok&to=WH+Podolsk", "")
	require.Equal(t, http.StatusOK, w.Code)

	var got report.Summary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Vladivostok", got.Source)
	assert.Equal(t, "WH Podolsk", got.Target)
	require.Len(t, got.Segments, 2)
	assert.Equal(t, "rail", got.Segments[0].Mode)
	assert.Equal(t, report.NotAvailable, got.Segments[0].Voyage)
	assert.Equal(t, "road", got.Segments[1].Mode)
	assert.Greater(t, got.TotalHours, 200.0)
}

func TestGetRouteNotFound(t *testing.T) {
	h, _ := newTestServer(t, &fakeSource{net: corridor()}, true)

	for _, target := range []string{
		"/routes?from=WH+Podolsk&to=Vladivostok",
		"/routes?from=Atlantis&to=Vladivostok",
	} {
		w := do(h, http.MethodGet, target, "")
		assert.Equal(t, http.StatusNotFound, w.Code, target)

		var got report.NotFound
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, report.NotFoundMessage, got.Message)
		assert.Equal(t, "Vladivostok", got.Target)
	}
}

func TestGetRouteBadRequestAndNoSnapshot(t *testing.T) {
	h, _ := newTestServer(t, &fakeSource{net: corridor()}, false)

	w := do(h, http.MethodGet, "/routes?from=Vladivostok", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(h, http.MethodGet, "/routes?from=Vladivostok&to=WH+Podolsk", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestBatchKeepsOrder(t *testing.T) {
	h, _ := newTestServer(t, &fakeSource{net: corridor()}, true)

	w := do(h, http.MethodPost, "/routes/batch", `{"queries":[
		{"from":"WH Podolsk","to":"Vladivostok"},
		{"from":"Vladivostok","to":"Moscow-Tovarnaya"},
		{"from":"Vladivostok","to":"Vladivostok"}
	]}`)
	require.Equal(t, http.StatusOK, w.Code)

	var got dto.BatchRouteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got.Results, 3)

	assert.False(t, got.Results[0].Found)
	require.NotNil(t, got.Results[0].NotFound)
	assert.Nil(t, got.Results[0].Route)

	assert.True(t, got.Results[1].Found)
	require.NotNil(t, got.Results[1].Route)
	assert.Equal(t, 200.0, got.Results[1].Route.TotalHours)

	assert.True(t, got.Results[2].Found)
	assert.Empty(t, got.Results[2].Route.Segments)
}

func TestBatchValidation(t *testing.T) {
	h, _ := newTestServer(t, &fakeSource{net: corridor()}, true)

	cases := map[string]string{
		"invalid json":   `{"queries":`,
		"unknown field":  `{"queries":[],"limit":1}`,
		"trailing value": `{"queries":[{"from":"a","to":"b"}]} {}`,
		"empty":          `{"queries":[]}`,
		"too many":       `{"queries":[{"from":"a","to":"b"},{"from":"a","to":"b"},{"from":"a","to":"b"},{"from":"a","to":"b"}]}`,
		"blank target":   `{"queries":[{"from":"a","to":" "}]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			w := do(h, http.MethodPost, "/routes/batch", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestNetworkEndpoints(t *testing.T) {
	src := &fakeSource{net: corridor()}
	h, _ := newTestServer(t, src, true)

	w := do(h, http.MethodGet, "/network", "")
	require.Equal(t, http.StatusOK, w.Code)
	var summary dto.NetworkResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, uint64(1), summary.Version)
	assert.Equal(t, 1, summary.Counts.RailSegments)
	assert.Equal(t, 3, summary.Counts.Nodes)

	w = do(h, http.MethodGet, "/network/stations", "")
	require.Equal(t, http.StatusOK, w.Code)
	var stations dto.StationCoverageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stations))
	require.Len(t, stations.Stations, 1)
	assert.Equal(t, "WH Podolsk", stations.Stations[0].Warehouse)
	assert.InDelta(t, 37.0, stations.Stations[0].DistanceKm, 1.0)

	w = do(h, http.MethodPost, "/network/rebuild", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, uint64(2), summary.Version)

	src.err = errors.New("workbook locked")
	w = do(h, http.MethodPost, "/network/rebuild", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)

	w = do(h, http.MethodGet, "/network", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, uint64(2), summary.Version)
}

func TestRequestIDAndCORS(t *testing.T) {
	h, _ := newTestServer(t, &fakeSource{net: corridor()}, true)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	req.Header.Set("Origin", "https://ops.example")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	w = do(h, http.MethodGet, "/health", "")
	assert.Len(t, w.Header().Get(requestIDHeader), 36)
}

func TestCORSConfigOrigins(t *testing.T) {
	assert.True(t, corsConfig(nil).AllowAllOrigins)
	assert.True(t, corsConfig([]string{"*"}).AllowAllOrigins)

	cfg := corsConfig([]string{"https://a.example"})
	assert.False(t, cfg.AllowAllOrigins)
	assert.Equal(t, []string{"https://a.example"}, cfg.AllowOrigins)
}
