package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/wanderdesk/service-bookings/internal/application"
	"github.com/wanderdesk/service-bookings/internal/middleware"
	"github.com/wanderdesk/service-bookings/internal/response"
)

// AdminHandler handles the admin reporting surface.
type AdminHandler struct {
	service *application.BookingService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(service *application.BookingService) *AdminHandler {
	return &AdminHandler{service: service}
}

// RegisterRoutes registers admin routes guarded by the shared admin key.
func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup, adminKey string) {
	admin := r.Group("/api/v1/admin")
	admin.Use(middleware.AdminKey(adminKey))
	{
		admin.GET("/summary", h.Summary)
	}
}

// Summary handles GET /api/v1/admin/summary.
func (h *AdminHandler) Summary(c *gin.Context) {
	summary, err := h.service.GetSummary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, "Summary fetched", summary)
}
