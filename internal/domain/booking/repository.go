package booking

import (
	"context"

	"github.com/google/uuid"
)

// BookingRepository defines the persistence contract for booking aggregates.
type BookingRepository interface {
	// Save persists a new booking.
	Save(ctx context.Context, booking *Booking) error

	// FindByID retrieves a booking by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// FindByPrincipal retrieves a principal's bookings newest first with pagination.
	FindByPrincipal(ctx context.Context, principalID uuid.UUID, page, limit int) ([]*Booking, int64, error)

	// UpdateStatus writes the booking's current status as a single-row update.
	UpdateStatus(ctx context.Context, booking *Booking) error

	// ListAll retrieves all bookings with pagination, optionally filtered by status (admin).
	ListAll(ctx context.Context, status string, page, limit int) ([]*Booking, int64, error)

	// CountByStatus returns booking counts grouped by status (admin).
	CountByStatus(ctx context.Context) (map[string]int64, error)
}
