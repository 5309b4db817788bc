package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/care-io/service-booking/internal/application"
	"github.com/care-io/service-booking/pkg/middleware"
	"github.com/care-io/service-booking/pkg/response"
)

// UserHandler handles HTTP requests for the caller's own account.
type UserHandler struct {
	service *application.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *application.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// RegisterRoutes registers account routes on the given router group.
func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup, resolver middleware.PrincipalResolver) {
	me := r.Group("/api/v1/users/me")
	me.Use(middleware.AuthMiddleware(resolver))
	{
		me.GET("", h.GetProfile)
		me.PUT("", h.UpdateProfile)
		me.PUT("/password", h.ChangePassword)
	}
}

// GetProfile handles GET /api/v1/users/me.
func (h *UserHandler) GetProfile(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	result, err := h.service.GetProfile(c.Request.Context(), principal)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// UpdateProfile handles PUT /api/v1/users/me.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req application.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	result, err := h.service.UpdateProfile(c.Request.Context(), principal, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ChangePassword handles PUT /api/v1/users/me/password.
func (h *UserHandler) ChangePassword(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req application.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), principal, req); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": "password updated"})
}
