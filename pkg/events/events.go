// Package events defines topics, event types and payloads shared over Kafka.
package events

import (
	"time"

	"github.com/google/uuid"
)

// Topics.
const (
	TopicBookingEvents = "booking.events"
	TopicPaymentEvents = "payment.events"

	TopicNotificationEvents = "notification.events"
)

// Booking event types.
const (
	BookingCreated   = "booking.created"
	BookingConfirmed = "booking.confirmed"
	BookingCompleted = "booking.completed"
	BookingCancelled = "booking.cancelled"
)

// Payment event types.
const (
	PaymentCaptured = "payment.captured"
	PaymentRefunded = "payment.refunded"
)

// Notification event types.
const (
	NotificationBookingCreated = "notification.booking_created"
)

// BookingCreatedEvent is published when a new booking is persisted.
type BookingCreatedEvent struct {
	BookingID     uuid.UUID `json:"booking_id"`
	BookingNumber string    `json:"booking_number"`
	UserID        uuid.UUID `json:"user_id"`
	UserEmail     string    `json:"user_email"`
	ServiceID     uuid.UUID `json:"service_id"`
	ServiceName   string    `json:"service_name"`
	Duration      int       `json:"duration"`
	DurationType  string    `json:"duration_type"`
	TotalCost     int64     `json:"total_cost"`
	Currency      string    `json:"currency"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// BookingStatusChangedEvent is published on confirm, complete and cancel.
type BookingStatusChangedEvent struct {
	BookingID     uuid.UUID `json:"booking_id"`
	BookingNumber string    `json:"booking_number"`
	UserID        uuid.UUID `json:"user_id"`
	FromStatus    string    `json:"from_status"`
	ToStatus      string    `json:"to_status"`
	Reason        string    `json:"reason,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// PaymentCapturedEvent is consumed from the payment service.
type PaymentCapturedEvent struct {
	PaymentID  uuid.UUID `json:"payment_id"`
	BookingID  uuid.UUID `json:"booking_id"`
	Amount     int64     `json:"amount"`
	Currency   string    `json:"currency"`
	OccurredAt time.Time `json:"occurred_at"`
}

// BookingNotificationEvent asks the notification service to tell a customer
// about their booking.
type BookingNotificationEvent struct {
	Recipient     string    `json:"recipient"`
	BookingID     uuid.UUID `json:"booking_id"`
	BookingNumber string    `json:"booking_number"`
	ServiceName   string    `json:"service_name"`
	Duration      int       `json:"duration"`
	DurationType  string    `json:"duration_type"`
	TotalCost     int64     `json:"total_cost"`
	Currency      string    `json:"currency"`
	Status        string    `json:"status"`
	OccurredAt    time.Time `json:"occurred_at"`
}
