package api

import (
	"net/http"
	"time"

	"freight-route-service/internal/api/handlers"
	"freight-route-service/internal/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Deps struct {
	Finder         *services.RouteFinder
	Snapshots      *services.SnapshotStore
	AllowedOrigins []string
	MaxBatch       int
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d Deps) http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestID())
	r.Use(accessLog())
	r.Use(cors.New(corsConfig(d.AllowedOrigins)))

	routeHandler := &handlers.RouteHandler{Finder: d.Finder, MaxBatch: d.MaxBatch}
	networkHandler := &handlers.NetworkHandler{Snapshots: d.Snapshots}

	r.GET("/health", handlers.Health)
	r.GET("/ready", handlers.Ready(d.Snapshots))

	r.GET("/routes", routeHandler.Get)
	r.POST("/routes/batch", routeHandler.Batch)

	r.GET("/network", networkHandler.Summary)
	r.GET("/network/stations", networkHandler.Stations)
	r.POST("/network/rebuild", networkHandler.Rebuild)

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", requestIDHeader},
		ExposeHeaders: []string{"Content-Length", requestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
