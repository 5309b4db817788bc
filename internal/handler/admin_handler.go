package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/care-io/service-booking/internal/application"
	"github.com/care-io/service-booking/pkg/auth"
	"github.com/care-io/service-booking/pkg/middleware"
	"github.com/care-io/service-booking/pkg/response"
)

// AdminBookingHandler handles admin HTTP requests for booking management.
type AdminBookingHandler struct {
	service *application.BookingService
}

// NewAdminBookingHandler creates a new AdminBookingHandler.
func NewAdminBookingHandler(service *application.BookingService) *AdminBookingHandler {
	return &AdminBookingHandler{service: service}
}

// RegisterRoutes registers admin booking routes.
func (h *AdminBookingHandler) RegisterRoutes(r *gin.RouterGroup, resolver middleware.PrincipalResolver) {
	admin := r.Group("/api/v1/admin")
	admin.Use(middleware.AuthMiddleware(resolver), middleware.RequireRole(auth.RoleAdmin))
	{
		admin.GET("/bookings", h.ListBookings)
		admin.POST("/bookings/:id/confirm", h.ConfirmBooking)
		admin.POST("/bookings/:id/complete", h.CompleteBooking)
		admin.GET("/stats/bookings", h.BookingStats)
	}
}

// ListBookings handles GET /api/v1/admin/bookings.
func (h *AdminBookingHandler) ListBookings(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)
	page, limit := parsePagination(c)

	bookings, total, err := h.service.ListAllBookings(c.Request.Context(), principal, c.Query("status"), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, bookings, total, page, limit)
}

// ConfirmBooking handles POST /api/v1/admin/bookings/:id/confirm.
func (h *AdminBookingHandler) ConfirmBooking(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	result, err := h.service.ConfirmBooking(c.Request.Context(), principal, bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// CompleteBooking handles POST /api/v1/admin/bookings/:id/complete.
func (h *AdminBookingHandler) CompleteBooking(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	result, err := h.service.CompleteBooking(c.Request.Context(), principal, bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// BookingStats handles GET /api/v1/admin/stats/bookings.
func (h *AdminBookingHandler) BookingStats(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)
	stats, err := h.service.GetBookingStats(c.Request.Context(), principal)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, stats)
}
