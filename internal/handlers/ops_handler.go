package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/proctorhub/proctoring-service/internal/services"
	"github.com/proctorhub/proctoring-service/internal/utils"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// OpsHandler exposes the operational surface: liveness, readiness, backend
// identity and analytics export. The proctoring data plane is consumed as a
// library, not over HTTP.
type OpsHandler struct {
	service services.ProctoringService
	backend string
	ping    func(ctx context.Context) error
	logger  utils.Logger
}

func NewOpsHandler(service services.ProctoringService, backend string, ping func(ctx context.Context) error, logger utils.Logger) *OpsHandler {
	return &OpsHandler{
		service: service,
		backend: backend,
		ping:    ping,
		logger:  logger,
	}
}

// Health reports process liveness.
func (h *OpsHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready reports whether the selected backend answers a ping.
func (h *OpsHandler) Ready(c *gin.Context) {
	if err := h.ping(c.Request.Context()); err != nil {
		h.logger.LogError(err, "readiness probe failed", "backend", h.backend)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "backend": h.backend})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "backend": h.backend})
}

// Backend reports which storage backend was selected at startup.
func (h *OpsHandler) Backend(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"backend": h.backend})
}

// ExportAnalytics streams the analytics snapshot for a period as xlsx.
func (h *OpsHandler) ExportAnalytics(c *gin.Context) {
	period := c.Query("period")
	if period == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "period query parameter is required"})
		return
	}

	data, err := h.service.ExportAnalyticsByPeriod(c.Request.Context(), period)
	if err != nil {
		h.logger.LogError(err, "analytics export failed", "period", period)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "failed to export analytics"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="fraud-analytics-`+period+`.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
