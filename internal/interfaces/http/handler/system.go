package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/bizdesk/erp/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const healthCheckTimeout = 2 * time.Second

// SystemHandler serves health and build information
type SystemHandler struct {
	BaseHandler
	db        *gorm.DB
	name      string
	version   string
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db *gorm.DB, name, version string) *SystemHandler {
	return &SystemHandler{
		db:        db,
		name:      name,
		version:   version,
		startTime: time.Now(),
	}
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
}

// HealthResponse reports liveness and database reachability
type HealthResponse struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	Timestamp string `json:"timestamp"`
}

// Health pings the database and reports 503 when it is unreachable
// GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	resp := HealthResponse{
		Status:    "ok",
		Database:  "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	if err := h.pingDB(c.Request.Context()); err != nil {
		resp.Status = "degraded"
		resp.Database = err.Error()
		c.JSON(http.StatusServiceUnavailable, dto.Response{Success: false, Data: resp})
		return
	}
	h.Success(c, resp)
}

func (h *SystemHandler) pingDB(ctx context.Context) error {
	if h.db == nil {
		return nil
	}
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

// GetSystemInfo returns basic system information including version and uptime
// GET /api/v1/system/info
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	h.Success(c, SystemInfoResponse{
		Name:      h.name,
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	})
}
