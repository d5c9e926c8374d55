package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wanderdesk/service-bookings/internal/application"
	"github.com/wanderdesk/service-bookings/internal/domain/booking"
	"github.com/wanderdesk/service-bookings/internal/response"
)

// BookingHandler handles HTTP requests for booking operations.
type BookingHandler struct {
	service         *application.BookingService
	defaultPageSize int
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service *application.BookingService, defaultPageSize int) *BookingHandler {
	return &BookingHandler{service: service, defaultPageSize: defaultPageSize}
}

// RegisterRoutes registers all booking routes on the given router group.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup) {
	bookings := r.Group("/api/v1/bookings")
	{
		bookings.GET("", h.ListBookings)
		bookings.POST("", h.CreateBooking)
		bookings.GET("/:id", h.GetBooking)
		bookings.PATCH("/:id", h.UpdateBooking)
		bookings.DELETE("/:id", h.DeleteBooking)
	}
}

// ListBookings handles GET /api/v1/bookings.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		response.BadRequest(c, "page must be an integer")
		return
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(h.defaultPageSize)))
	if err != nil {
		response.BadRequest(c, "page_size must be an integer")
		return
	}

	result, err := h.service.ListBookings(c.Request.Context(), application.ListQuery{
		Search:   c.Query("search"),
		Mode:     c.Query("booking_mode"),
		Status:   c.Query("status"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, "Bookings fetched", *result)
}

// CreateBooking handles POST /api/v1/bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var rec booking.Booking
	if err := c.ShouldBindJSON(&rec); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	created, err := h.service.CreateBooking(c.Request.Context(), &rec)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Booking created", created)
}

// GetBooking handles GET /api/v1/bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	rec, err := h.service.GetBooking(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, "Booking fetched", rec)
}

// UpdateBooking handles PATCH /api/v1/bookings/:id.
func (h *BookingHandler) UpdateBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	var patch booking.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	updated, err := h.service.UpdateBooking(c.Request.Context(), id, patch)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, "Booking updated", updated)
}

// DeleteBooking handles DELETE /api/v1/bookings/:id.
func (h *BookingHandler) DeleteBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	if err := h.service.DeleteBooking(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, "Booking deleted", nil)
}
