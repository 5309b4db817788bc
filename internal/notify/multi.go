package notify

import (
	"context"
	"errors"

	"github.com/care-io/service-booking/internal/application"
)

// Multi delivers to every notifier in turn. One failure does not stop the rest.
type Multi []application.Notifier

// NotifyBookingCreated calls each notifier and joins their errors.
func (m Multi) NotifyBookingCreated(ctx context.Context, email string, summary application.BookingSummary) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.NotifyBookingCreated(ctx, email, summary); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
