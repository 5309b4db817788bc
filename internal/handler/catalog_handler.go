package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/care-io/service-booking/internal/application"
	"github.com/care-io/service-booking/pkg/auth"
	"github.com/care-io/service-booking/pkg/middleware"
	"github.com/care-io/service-booking/pkg/response"
)

// CatalogHandler handles HTTP requests for the service catalog.
type CatalogHandler struct {
	service *application.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(service *application.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// RegisterRoutes registers public catalog routes and the admin create route.
func (h *CatalogHandler) RegisterRoutes(r *gin.RouterGroup, resolver middleware.PrincipalResolver) {
	services := r.Group("/api/v1/services")
	{
		services.GET("", h.ListServices)
		services.GET("/:id", h.GetService)
	}

	admin := r.Group("/api/v1/admin/services")
	admin.Use(middleware.AuthMiddleware(resolver), middleware.RequireRole(auth.RoleAdmin))
	{
		admin.POST("", h.CreateService)
	}
}

// ListServices handles GET /api/v1/services.
func (h *CatalogHandler) ListServices(c *gin.Context) {
	page, limit := parsePagination(c)
	result, err := h.service.ListServices(c.Request.Context(), c.Query("category"), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetService handles GET /api/v1/services/:id.
func (h *CatalogHandler) GetService(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid service ID")
		return
	}

	result, err := h.service.GetService(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// CreateService handles POST /api/v1/admin/services.
func (h *CatalogHandler) CreateService(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	var req application.CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateService(c.Request.Context(), principal, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}
