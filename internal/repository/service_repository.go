package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/care-io/service-booking/internal/domain/catalog"
	"github.com/care-io/service-booking/pkg/domain"
)

// ServiceModel is the GORM model for the services table.
type ServiceModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name            string          `gorm:"type:varchar(200);not null"`
	Description     string          `gorm:"type:text"`
	PricePerDay     float64         `gorm:"type:numeric(12,2);not null"`
	Image           string          `gorm:"type:text"`
	Category        string          `gorm:"type:varchar(100);index"`
	DurationOptions json.RawMessage `gorm:"type:jsonb"`
	LocationOptions json.RawMessage `gorm:"type:jsonb"`
	CreatedAt       time.Time       `gorm:"type:timestamptz;not null"`
	UpdatedAt       time.Time       `gorm:"type:timestamptz;not null"`
}

func (ServiceModel) TableName() string { return "services" }

// GormServiceRepository implements ServiceRepository using GORM.
type GormServiceRepository struct {
	db *gorm.DB
}

func NewGormServiceRepository(db *gorm.DB) *GormServiceRepository {
	return &GormServiceRepository{db: db}
}

func (r *GormServiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Service, error) {
	var model ServiceModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Service", id.String())
		}
		return nil, domain.NewStorageError("find service", err)
	}
	return toServiceDomain(&model)
}

func (r *GormServiceRepository) List(ctx context.Context, category string, page, limit int) ([]*catalog.Service, int64, error) {
	page, limit = normalizePage(page, limit)
	query := r.db.WithContext(ctx).Model(&ServiceModel{})
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, domain.NewStorageError("count services", err)
	}

	var models []ServiceModel
	if err := query.Session(&gorm.Session{}).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, domain.NewStorageError("list services", err)
	}

	services := make([]*catalog.Service, 0, len(models))
	for i := range models {
		svc, err := toServiceDomain(&models[i])
		if err != nil {
			return nil, 0, err
		}
		services = append(services, svc)
	}
	return services, total, nil
}

func (r *GormServiceRepository) Save(ctx context.Context, svc *catalog.Service) error {
	model, err := toServiceModel(svc)
	if err != nil {
		return domain.NewStorageError("save service", err)
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return domain.NewStorageError("save service", err)
	}
	return nil
}

func toServiceModel(svc *catalog.Service) (*ServiceModel, error) {
	durations, err := marshalOptions(svc.DurationOptions())
	if err != nil {
		return nil, err
	}
	locations, err := marshalOptions(svc.LocationOptions())
	if err != nil {
		return nil, err
	}
	return &ServiceModel{
		ID:              svc.ID(),
		Name:            svc.Name(),
		Description:     svc.Description(),
		PricePerDay:     svc.PricePerDay(),
		Image:           svc.Image(),
		Category:        svc.Category(),
		DurationOptions: durations,
		LocationOptions: locations,
		CreatedAt:       svc.CreatedAt(),
		UpdatedAt:       svc.UpdatedAt(),
	}, nil
}

func toServiceDomain(m *ServiceModel) (*catalog.Service, error) {
	durations, err := unmarshalOptions(m.DurationOptions)
	if err != nil {
		return nil, domain.NewStorageError("decode service duration options", err)
	}
	locations, err := unmarshalOptions(m.LocationOptions)
	if err != nil {
		return nil, domain.NewStorageError("decode service location options", err)
	}
	return catalog.Reconstruct(
		m.ID,
		m.Name,
		m.Description,
		m.PricePerDay,
		m.Image,
		m.Category,
		durations,
		locations,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

func marshalOptions(opts []string) (json.RawMessage, error) {
	if len(opts) == 0 {
		return nil, nil
	}
	return json.Marshal(opts)
}

func unmarshalOptions(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var opts []string
	if err := json.Unmarshal(raw, &opts); err != nil {
		return nil, err
	}
	return opts, nil
}
