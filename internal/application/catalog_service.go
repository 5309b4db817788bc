package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/care-io/service-booking/internal/domain/catalog"
	"github.com/care-io/service-booking/pkg/auth"
	"github.com/care-io/service-booking/pkg/domain"
)

// CreateServiceRequest is the request DTO for adding a catalog entry.
type CreateServiceRequest struct {
	Name            string   `json:"name" binding:"required"`
	Description     string   `json:"description"`
	PricePerDay     float64  `json:"pricePerDay"`
	Image           string   `json:"image"`
	Category        string   `json:"category"`
	DurationOptions []string `json:"durationOptions"`
	LocationOptions []string `json:"locationOptions"`
}

// ServiceDTO is the API response representation of a catalog entry.
type ServiceDTO struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	PricePerDay     float64   `json:"pricePerDay"`
	Image           string    `json:"image,omitempty"`
	Category        string    `json:"category,omitempty"`
	DurationOptions []string  `json:"durationOptions,omitempty"`
	LocationOptions []string  `json:"locationOptions,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// CatalogService handles the service catalog use cases.
type CatalogService struct {
	repo   catalog.ServiceRepository
	logger *zap.Logger
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(repo catalog.ServiceRepository, logger *zap.Logger) *CatalogService {
	return &CatalogService{repo: repo, logger: logger}
}

// ListServices returns catalog entries newest first, optionally filtered by category.
func (s *CatalogService) ListServices(ctx context.Context, category string, page, limit int) (*domain.PaginatedResult[ServiceDTO], error) {
	services, total, err := s.repo.List(ctx, category, page, limit)
	if err != nil {
		return nil, asStorageError("list services", err)
	}

	dtos := make([]ServiceDTO, len(services))
	for i, svc := range services {
		dtos[i] = toServiceDTO(svc)
	}

	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// GetService returns a single catalog entry.
func (s *CatalogService) GetService(ctx context.Context, id uuid.UUID) (*ServiceDTO, error) {
	svc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := toServiceDTO(svc)
	return &result, nil
}

// CreateService adds a catalog entry. Requires role admin.
func (s *CatalogService) CreateService(ctx context.Context, principal auth.Principal, req CreateServiceRequest) (*ServiceDTO, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}

	svc, err := catalog.NewService(
		req.Name,
		req.Description,
		req.PricePerDay,
		req.Image,
		req.Category,
		req.DurationOptions,
		req.LocationOptions,
	)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, svc); err != nil {
		return nil, asStorageError("save service", err)
	}

	s.logger.Info("service created",
		zap.String("service_id", svc.ID().String()),
		zap.String("name", svc.Name()),
		zap.String("created_by", principal.ID.String()),
	)

	result := toServiceDTO(svc)
	return &result, nil
}

func toServiceDTO(svc *catalog.Service) ServiceDTO {
	return ServiceDTO{
		ID:              svc.ID(),
		Name:            svc.Name(),
		Description:     svc.Description(),
		PricePerDay:     svc.PricePerDay(),
		Image:           svc.Image(),
		Category:        svc.Category(),
		DurationOptions: svc.DurationOptions(),
		LocationOptions: svc.LocationOptions(),
		CreatedAt:       svc.CreatedAt(),
	}
}
