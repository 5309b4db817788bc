package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	bookingDomain "github.com/care-io/service-booking/internal/domain/booking"
	"github.com/care-io/service-booking/pkg/domain"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	BookingNumber string          `gorm:"uniqueIndex;not null;size:20"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null;index:idx_bookings_user_created,priority:1"`
	ServiceID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ServiceName   string          `gorm:"not null;size:200"`
	Status        string          `gorm:"not null;size:20;index"`
	Duration      int             `gorm:"not null"`
	DurationType  string          `gorm:"not null;size:10"`
	Location      json.RawMessage `gorm:"type:jsonb;not null"`
	TotalCost     int64           `gorm:"not null"`
	Currency      string          `gorm:"not null;size:3"`
	Notes         string          `gorm:"size:1000"`
	CancelledAt   *time.Time      `gorm:""`
	CancelReason  string          `gorm:"size:500"`
	CreatedAt     time.Time       `gorm:"not null;index:idx_bookings_user_created,priority:2,sort:desc"`
	UpdatedAt     time.Time       `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of BookingRepository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// Save persists a new booking.
func (r *GormBookingRepository) Save(ctx context.Context, bk *bookingDomain.Booking) error {
	model, err := toBookingModel(bk)
	if err != nil {
		return domain.NewStorageError("save booking", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return domain.NewStorageError("save booking", err)
	}
	return nil
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", id.String())
		}
		return nil, domain.NewStorageError("find booking", err)
	}
	return toDomainBooking(&model)
}

// FindByPrincipal retrieves a user's bookings newest first with pagination.
func (r *GormBookingRepository) FindByPrincipal(ctx context.Context, principalID uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	return r.list(r.db.WithContext(ctx).Where("user_id = ?", principalID), page, limit)
}

// UpdateStatus writes the status columns of a booking in one UPDATE.
// Concurrent transitions are not detected; the last write wins.
func (r *GormBookingRepository) UpdateStatus(ctx context.Context, bk *bookingDomain.Booking) error {
	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ?", bk.ID()).
		Updates(map[string]interface{}{
			"status":        bk.Status().String(),
			"cancelled_at":  bk.CancelledAt(),
			"cancel_reason": bk.CancelReason(),
			"updated_at":    bk.UpdatedAt(),
		})

	if result.Error != nil {
		return domain.NewStorageError("update booking status", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Booking", bk.ID().String())
	}
	return nil
}

// ListAll retrieves all bookings with pagination, optionally filtered by status (admin).
func (r *GormBookingRepository) ListAll(ctx context.Context, status string, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	query := r.db.WithContext(ctx)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	return r.list(query, page, limit)
}

// CountByStatus returns booking counts grouped by status (admin).
func (r *GormBookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&results).Error; err != nil {
		return nil, domain.NewStorageError("count bookings by status", err)
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return counts, nil
}

func (r *GormBookingRepository) list(query *gorm.DB, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	page, limit = normalizePage(page, limit)

	var total int64
	if err := query.Session(&gorm.Session{}).Model(&BookingModel{}).Count(&total).Error; err != nil {
		return nil, 0, domain.NewStorageError("count bookings", err)
	}

	var models []BookingModel
	if err := query.Session(&gorm.Session{}).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, domain.NewStorageError("list bookings", err)
	}

	bookings := make([]*bookingDomain.Booking, len(models))
	for i := range models {
		bk, err := toDomainBooking(&models[i])
		if err != nil {
			return nil, 0, err
		}
		bookings[i] = bk
	}

	return bookings, total, nil
}

// --- Conversion Helpers ---

func toBookingModel(bk *bookingDomain.Booking) (*BookingModel, error) {
	locationJSON, err := json.Marshal(bk.Location())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal location: %w", err)
	}

	return &BookingModel{
		ID:            bk.ID(),
		BookingNumber: bk.BookingNumber(),
		UserID:        bk.PrincipalID(),
		ServiceID:     bk.ServiceID(),
		ServiceName:   bk.ServiceName(),
		Status:        bk.Status().String(),
		Duration:      bk.Duration(),
		DurationType:  string(bk.DurationType()),
		Location:      locationJSON,
		TotalCost:     bk.TotalCost(),
		Currency:      bk.Currency(),
		Notes:         bk.Notes(),
		CancelledAt:   bk.CancelledAt(),
		CancelReason:  bk.CancelReason(),
		CreatedAt:     bk.CreatedAt(),
		UpdatedAt:     bk.UpdatedAt(),
	}, nil
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	var location bookingDomain.Location
	if err := json.Unmarshal(m.Location, &location); err != nil {
		return nil, domain.NewStorageError("decode booking location", err)
	}

	status, err := bookingDomain.ParseBookingStatus(m.Status)
	if err != nil {
		return nil, domain.NewStorageError("decode booking status", err)
	}

	durationType, err := bookingDomain.ParseDurationType(m.DurationType)
	if err != nil {
		return nil, domain.NewStorageError("decode booking duration type", err)
	}

	return bookingDomain.ReconstructBooking(
		m.ID,
		m.BookingNumber,
		m.UserID,
		m.ServiceID,
		m.ServiceName,
		status,
		m.Duration,
		durationType,
		location,
		m.TotalCost,
		m.Currency,
		m.Notes,
		m.CancelledAt,
		m.CancelReason,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	return page, limit
}
