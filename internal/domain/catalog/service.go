package catalog

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/care-io/service-booking/pkg/domain"
)

// Service is a bookable care offering in the catalog.
type Service struct {
	id              uuid.UUID
	name            string
	description     string
	pricePerDay     float64
	image           string
	category        string
	durationOptions []string
	locationOptions []string
	createdAt       time.Time
	updatedAt       time.Time
}

// NewService creates a catalog entry. pricePerDay must be finite and not
// negative.
func NewService(
	name, description string,
	pricePerDay float64,
	image, category string,
	durationOptions, locationOptions []string,
) (*Service, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewFieldValidationError("name", "service name is required")
	}
	if math.IsNaN(pricePerDay) || math.IsInf(pricePerDay, 0) {
		return nil, domain.NewFieldValidationError("pricePerDay", "price per day must be a finite number")
	}
	if pricePerDay < 0 {
		return nil, domain.NewFieldValidationError("pricePerDay", "price per day cannot be negative")
	}

	now := time.Now().UTC()
	return &Service{
		id:              uuid.New(),
		name:            name,
		description:     strings.TrimSpace(description),
		pricePerDay:     pricePerDay,
		image:           image,
		category:        strings.TrimSpace(category),
		durationOptions: durationOptions,
		locationOptions: locationOptions,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// Reconstruct rebuilds a Service from persistence data (no validation).
func Reconstruct(
	id uuid.UUID,
	name, description string,
	pricePerDay float64,
	image, category string,
	durationOptions, locationOptions []string,
	createdAt, updatedAt time.Time,
) *Service {
	return &Service{
		id:              id,
		name:            name,
		description:     description,
		pricePerDay:     pricePerDay,
		image:           image,
		category:        category,
		durationOptions: durationOptions,
		locationOptions: locationOptions,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// Getters.
func (s *Service) ID() uuid.UUID { return s.id }
func (s *Service) Name() string { return s.name }
func (s *Service) Description() string { return s.description }
func (s *Service) PricePerDay() float64 { return s.pricePerDay }
func (s *Service) Image() string { return s.image }
func (s *Service) Category() string { return s.category }
func (s *Service) DurationOptions() []string { return s.durationOptions }
func (s *Service) LocationOptions() []string { return s.locationOptions }
func (s *Service) CreatedAt() time.Time { return s.createdAt }
func (s *Service) UpdatedAt() time.Time { return s.updatedAt }

// AllowsDuration reports whether the service accepts the given duration unit.
// A service that declares no options accepts every unit.
func (s *Service) AllowsDuration(unit string) bool {
	if len(s.durationOptions) == 0 {
		return true
	}
	for _, opt := range s.durationOptions {
		if strings.EqualFold(opt, unit) {
			return true
		}
	}
	return false
}
