package booking

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/care-io/service-booking/pkg/domain"
)

const bookingNumberChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Booking is the aggregate root for the booking domain.
type Booking struct {
	id            uuid.UUID
	bookingNumber string
	principalID   uuid.UUID
	serviceID     uuid.UUID
	serviceName   string
	status        BookingStatus

	duration     int
	durationType DurationType
	location     Location
	totalCost    int64
	currency     string
	notes        string

	cancelledAt  *time.Time
	cancelReason string

	createdAt time.Time
	updatedAt time.Time
}

// generateBookingNumber creates a booking number in the format "BK-XXXXXX".
func generateBookingNumber() (string, error) {
	result := make([]byte, 6)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(bookingNumberChars))))
		if err != nil {
			return "", fmt.Errorf("failed to generate booking number: %w", err)
		}
		result[i] = bookingNumberChars[n.Int64()]
	}
	return "BK-" + string(result), nil
}

// NewBooking creates a Pending booking from a validated request. totalCost is
// fixed here and never changes afterwards.
func NewBooking(
	principalID uuid.UUID,
	serviceID uuid.UUID,
	serviceName string,
	req ValidatedRequest,
	totalCost int64,
	currency string,
) (*Booking, error) {
	if principalID == uuid.Nil {
		return nil, domain.NewFieldValidationError("principalId", "principal ID is required")
	}
	if serviceID == uuid.Nil {
		return nil, domain.NewFieldValidationError("serviceId", "service ID is required")
	}
	if totalCost < 0 {
		return nil, domain.NewFieldValidationError("totalCost", "total cost cannot be negative")
	}

	bookingNumber, err := generateBookingNumber()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Booking{
		id:            uuid.New(),
		bookingNumber: bookingNumber,
		principalID:   principalID,
		serviceID:     serviceID,
		serviceName:   serviceName,
		status:        StatusPending,
		duration:      req.Duration,
		durationType:  req.DurationType,
		location:      req.Location,
		totalCost:     totalCost,
		currency:      currency,
		notes:         req.Notes,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// ReconstructBooking rebuilds a Booking from persistence data (no validation).
func ReconstructBooking(
	id uuid.UUID,
	bookingNumber string,
	principalID uuid.UUID,
	serviceID uuid.UUID,
	serviceName string,
	status BookingStatus,
	duration int,
	durationType DurationType,
	location Location,
	totalCost int64,
	currency string,
	notes string,
	cancelledAt *time.Time,
	cancelReason string,
	createdAt time.Time,
	updatedAt time.Time,
) *Booking {
	return &Booking{
		id:            id,
		bookingNumber: bookingNumber,
		principalID:   principalID,
		serviceID:     serviceID,
		serviceName:   serviceName,
		status:        status,
		duration:      duration,
		durationType:  durationType,
		location:      location,
		totalCost:     totalCost,
		currency:      currency,
		notes:         notes,
		cancelledAt:   cancelledAt,
		cancelReason:  cancelReason,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// --- Getters ---

// ID returns the booking's unique identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// BookingNumber returns the human-readable booking number.
func (b *Booking) BookingNumber() string { return b.bookingNumber }

// PrincipalID returns the owning user's ID.
func (b *Booking) PrincipalID() uuid.UUID { return b.principalID }

// ServiceID returns the booked service's ID.
func (b *Booking) ServiceID() uuid.UUID { return b.serviceID }

// ServiceName returns the service name captured at creation.
func (b *Booking) ServiceName() string { return b.serviceName }

// Status returns the current booking status.
func (b *Booking) Status() BookingStatus { return b.status }

// Duration returns the number of hours or days booked.
func (b *Booking) Duration() int { return b.duration }

// DurationType returns the unit of Duration.
func (b *Booking) DurationType() DurationType { return b.durationType }

// Location returns where the service is delivered.
func (b *Booking) Location() Location { return b.location }

// TotalCost returns the cost in whole currency units.
func (b *Booking) TotalCost() int64 { return b.totalCost }

// Currency returns the currency code.
func (b *Booking) Currency() string { return b.currency }

// Notes returns any additional notes for the booking.
func (b *Booking) Notes() string { return b.notes }

// CancelledAt returns the time the booking was cancelled.
func (b *Booking) CancelledAt() *time.Time { return b.cancelledAt }

// CancelReason returns the cancellation reason.
func (b *Booking) CancelReason() string { return b.cancelReason }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// --- Behavior ---

// IsOwnedBy reports whether principalID created the booking.
func (b *Booking) IsOwnedBy(principalID uuid.UUID) bool {
	return b.principalID == principalID
}

// Confirm transitions the booking from Pending to Confirmed.
func (b *Booking) Confirm() error {
	return b.transition(StatusConfirmed)
}

// Complete transitions the booking from Confirmed to Completed.
func (b *Booking) Complete() error {
	return b.transition(StatusCompleted)
}

// Cancel transitions the booking to Cancelled if it is Pending or Confirmed.
func (b *Booking) Cancel(reason string) error {
	if !b.status.CanBeCancelled() {
		return domain.NewInvalidStateError(string(b.status), string(StatusCancelled))
	}
	now := time.Now().UTC()
	b.status = StatusCancelled
	b.cancelReason = reason
	b.cancelledAt = &now
	b.updatedAt = now
	return nil
}

func (b *Booking) transition(target BookingStatus) error {
	if !b.status.CanTransitionTo(target) {
		return domain.NewInvalidStateError(string(b.status), string(target))
	}
	b.status = target
	b.updatedAt = time.Now().UTC()
	return nil
}
