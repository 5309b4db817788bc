package events

import (
	"context"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/care-io/service-booking/internal/application"
	"github.com/care-io/service-booking/pkg/domain"
	"github.com/care-io/service-booking/pkg/events"
	"github.com/care-io/service-booking/pkg/kafka"
)

// BookingConfirmer confirms a booking once its payment has been captured.
type BookingConfirmer interface {
	ConfirmBookingFromPayment(ctx context.Context, bookingID uuid.UUID) (*application.BookingDTO, error)
}

// PaymentEventConsumer listens to payment events and confirms paid bookings.
type PaymentEventConsumer struct {
	consumer *kafka.Consumer
	service  BookingConfirmer
	logger   *zap.Logger
}

// NewPaymentEventConsumer creates a new PaymentEventConsumer.
func NewPaymentEventConsumer(
	brokers []string,
	groupID string,
	service BookingConfirmer,
	logger *zap.Logger,
) *PaymentEventConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, events.TopicPaymentEvents, logger)
	return &PaymentEventConsumer{
		consumer: consumer,
		service:  service,
		logger:   logger,
	}
}

// Start begins consuming payment events. This blocks until the context is cancelled.
func (c *PaymentEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *PaymentEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *PaymentEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	cloudEvent, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from payment topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch cloudEvent.Type {
	case events.PaymentCaptured:
		return c.handlePaymentCaptured(ctx, cloudEvent)
	default:
		c.logger.Debug("ignoring unhandled payment event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *PaymentEventConsumer) handlePaymentCaptured(ctx context.Context, cloudEvent kafka.CloudEvent) error {
	var evt events.PaymentCapturedEvent
	if err := cloudEvent.ParseData(&evt); err != nil || evt.BookingID == uuid.Nil {
		c.logger.Error("failed to parse PaymentCapturedEvent data",
			zap.String("event_id", cloudEvent.ID),
			zap.Error(err),
		)
		return nil // Don't retry malformed data
	}

	c.logger.Info("processing payment captured event",
		zap.String("booking_id", evt.BookingID.String()),
		zap.String("payment_id", evt.PaymentID.String()),
	)

	_, err := c.service.ConfirmBookingFromPayment(ctx, evt.BookingID)
	switch {
	case err == nil:
		c.logger.Info("booking confirmed after payment capture",
			zap.String("booking_id", evt.BookingID.String()),
		)
		return nil
	case domain.IsNotFound(err), domain.IsInvalidState(err):
		// Redelivery cannot change the outcome.
		c.logger.Warn("skipping payment captured event",
			zap.String("booking_id", evt.BookingID.String()),
			zap.Error(err),
		)
		return nil
	default:
		c.logger.Error("failed to confirm booking after payment capture",
			zap.String("booking_id", evt.BookingID.String()),
			zap.Error(err),
		)
		return err
	}
}
