package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wanderdesk/service-bookings/internal/application"
)

// HealthHandler exposes liveness and readiness probes.
type HealthHandler struct {
	service *application.BookingService
	name    string
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(service *application.BookingService, name string) *HealthHandler {
	return &HealthHandler{service: service, name: name}
}

// RegisterRoutes registers the health routes.
func (h *HealthHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)
}

// Healthz handles GET /healthz.
func (h *HealthHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": h.name})
}

// Readyz handles GET /readyz. Ready means the active backend answers.
func (h *HealthHandler) Readyz(c *gin.Context) {
	if err := h.service.Ready(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "service": h.name})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "service": h.name})
}
