package notify

import (
	"context"
	"time"

	"github.com/care-io/service-booking/internal/application"
	"github.com/care-io/service-booking/pkg/events"
	"github.com/care-io/service-booking/pkg/kafka"
)

const eventSource = "service-booking"

// EventNotifier hands booking confirmations to the notification service over Kafka.
type EventNotifier struct {
	publisher application.EventPublisher
}

// NewEventNotifier creates a new EventNotifier.
func NewEventNotifier(publisher application.EventPublisher) *EventNotifier {
	return &EventNotifier{publisher: publisher}
}

// NotifyBookingCreated publishes a notification request for summary.
func (n *EventNotifier) NotifyBookingCreated(ctx context.Context, email string, summary application.BookingSummary) error {
	evt := events.BookingNotificationEvent{
		Recipient:     email,
		BookingID:     summary.BookingID,
		BookingNumber: summary.BookingNumber,
		ServiceName:   summary.ServiceName,
		Duration:      summary.Duration,
		DurationType:  summary.DurationType,
		TotalCost:     summary.TotalCost,
		Currency:      summary.Currency,
		Status:        summary.Status,
		OccurredAt:    time.Now().UTC(),
	}

	ce, err := kafka.NewCloudEvent(eventSource, events.NotificationBookingCreated, evt)
	if err != nil {
		return err
	}
	return n.publisher.PublishEvent(ctx, events.TopicNotificationEvents, ce)
}
