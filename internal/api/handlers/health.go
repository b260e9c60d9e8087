package handlers

import (
	"net/http"

	"freight-route-service/internal/services"
	"github.com/gin-gonic/gin"
)

// Health provides a minimal liveness check endpoint.
func Health(c *gin.Context) {
	writeJSON(c, http.StatusOK, gin.H{"status": "ok"})
}

// Ready reports whether a route graph has been published yet.
func Ready(snapshots *services.SnapshotStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap := snapshots.Current()
		if snap == nil {
			writeError(c, http.StatusServiceUnavailable, services.ErrNoSnapshot.Error())
			return
		}
		writeJSON(c, http.StatusOK, gin.H{"status": "ready", "version": snap.Version})
	}
}
