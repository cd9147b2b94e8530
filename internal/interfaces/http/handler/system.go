package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/storeledger/backend/internal/infrastructure/persistence"
)

// SystemHandler handles health and readiness endpoints
type SystemHandler struct {
	BaseHandler
	db      *persistence.Database
	appName string
	version string
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db *persistence.Database, appName, version string) *SystemHandler {
	return &SystemHandler{db: db, appName: appName, version: version}
}

// RegisterRoutes registers system routes on the API group
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)
	rg.GET("/ready", h.Ready)
}

// Health reports process liveness
func (h *SystemHandler) Health(c *gin.Context) {
	h.Success(c, gin.H{
		"status":  "ok",
		"app":     h.appName,
		"version": h.version,
	})
}

// Ready reports whether the database is reachable
func (h *SystemHandler) Ready(c *gin.Context) {
	if h.db == nil || h.db.Ping() != nil {
		h.Error(c, http.StatusServiceUnavailable, "NOT_READY", "Database is not reachable")
		return
	}
	h.Success(c, gin.H{"status": "ready"})
}
