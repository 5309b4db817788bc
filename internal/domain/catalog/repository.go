package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ServiceRepository defines persistence operations for the service catalog.
type ServiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Service, error)
	// List returns services newest first, optionally filtered by category.
	List(ctx context.Context, category string, page, limit int) ([]*Service, int64, error)
	Save(ctx context.Context, service *Service) error
}
