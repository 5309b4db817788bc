package application

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingDomain "github.com/care-io/service-booking/internal/domain/booking"
	"github.com/care-io/service-booking/internal/domain/catalog"
	"github.com/care-io/service-booking/pkg/auth"
	"github.com/care-io/service-booking/pkg/domain"
	"github.com/care-io/service-booking/pkg/events"
	"github.com/care-io/service-booking/pkg/kafka"
)

const (
	eventSource   = "service-booking"
	notifyTimeout = 30 * time.Second
)

// BookingSummary is what a customer is told about a newly created booking.
type BookingSummary struct {
	BookingID     uuid.UUID              `json:"bookingId"`
	BookingNumber string                 `json:"bookingNumber"`
	ServiceName   string                 `json:"serviceName"`
	Duration      int                    `json:"duration"`
	DurationType  string                 `json:"durationType"`
	Location      bookingDomain.Location `json:"location"`
	TotalCost     int64                  `json:"totalCost"`
	Currency      string                 `json:"currency"`
	Status        string                 `json:"status"`
	Notes         string                 `json:"notes,omitempty"`
	CreatedAt     time.Time              `json:"createdAt"`
}

// Notifier delivers booking confirmations. Calls are best-effort.
type Notifier interface {
	NotifyBookingCreated(ctx context.Context, email string, summary BookingSummary) error
}

// EventPublisher publishes CloudEvents to a topic.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, ce kafka.CloudEvent) error
}

// CancelBookingRequest carries an optional cancellation reason.
type CancelBookingRequest struct {
	Reason string `json:"reason"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	BookingID     uuid.UUID              `json:"bookingId"`
	BookingNumber string                 `json:"bookingNumber"`
	UserID        uuid.UUID              `json:"userId"`
	ServiceID     uuid.UUID              `json:"serviceId"`
	ServiceName   string                 `json:"serviceName"`
	Status        string                 `json:"status"`
	Duration      int                    `json:"duration"`
	DurationType  string                 `json:"durationType"`
	Location      bookingDomain.Location `json:"location"`
	TotalCost     int64                  `json:"totalCost"`
	Currency      string                 `json:"currency"`
	Notes         string                 `json:"notes,omitempty"`
	CancelledAt   *time.Time             `json:"cancelledAt,omitempty"`
	CancelReason  string                 `json:"cancelReason,omitempty"`
	CreatedAt     time.Time              `json:"createdAt"`
	UpdatedAt     time.Time              `json:"updatedAt"`
}

// BookingService is the application service orchestrating booking use cases.
// Every operation takes the acting Principal explicitly.
type BookingService struct {
	repo      bookingDomain.BookingRepository
	services  catalog.ServiceRepository
	validator *bookingDomain.Validator
	pricing   bookingDomain.PricingStrategy
	notifier  Notifier
	publisher EventPublisher
	logger    *zap.Logger

	notifications sync.WaitGroup
}

// NewBookingService creates a new BookingService. notifier and publisher may be nil.
func NewBookingService(
	repo bookingDomain.BookingRepository,
	services catalog.ServiceRepository,
	validator *bookingDomain.Validator,
	pricing bookingDomain.PricingStrategy,
	notifier Notifier,
	publisher EventPublisher,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		repo:      repo,
		services:  services,
		validator: validator,
		pricing:   pricing,
		notifier:  notifier,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateBooking validates the request against the catalog, prices it and
// stores a new Pending booking owned by principal.
func (s *BookingService) CreateBooking(ctx context.Context, principal auth.Principal, req bookingDomain.CreateBookingRequest) (*BookingDTO, error) {
	if principal.ID == uuid.Nil {
		return nil, domain.NewUnauthenticatedError("authentication required")
	}

	svc, err := s.services.FindByID(ctx, req.ServiceID)
	if err != nil && !domain.IsNotFound(err) {
		return nil, asStorageError("find service", err)
	}

	validated, err := s.validator.Validate(req, svc)
	if err != nil {
		return nil, err
	}

	totalCost := s.pricing.Compute(svc.PricePerDay(), validated.Duration, validated.DurationType)

	bk, err := bookingDomain.NewBooking(principal.ID, svc.ID(), svc.Name(), validated, totalCost, domain.CurrencyBDT)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, bk); err != nil {
		return nil, asStorageError("save booking", err)
	}

	s.logger.Info("booking created",
		zap.String("booking_id", bk.ID().String()),
		zap.String("booking_number", bk.BookingNumber()),
		zap.String("user_id", principal.ID.String()),
		zap.Int64("total_cost", totalCost),
	)

	s.publishBookingCreated(ctx, principal, bk)
	s.notifyBookingCreated(principal.Email, bk)

	result := toBookingDTO(bk)
	return &result, nil
}

// GetBooking returns a booking the principal owns, or any booking for an admin.
func (s *BookingService) GetBooking(ctx context.Context, principal auth.Principal, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := authorizeRead(principal, bk); err != nil {
		return nil, err
	}
	result := toBookingDTO(bk)
	return &result, nil
}

// ListMyBookings returns the principal's bookings, newest first.
func (s *BookingService) ListMyBookings(ctx context.Context, principal auth.Principal, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	bookings, total, err := s.repo.FindByPrincipal(ctx, principal.ID, page, limit)
	if err != nil {
		return nil, asStorageError("list bookings", err)
	}

	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}

	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// CancelBooking cancels a Pending or Confirmed booking. Only the owner may
// cancel; the admin role does not override ownership here.
func (s *BookingService) CancelBooking(ctx context.Context, principal auth.Principal, bookingID uuid.UUID, reason string) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !bk.IsOwnedBy(principal.ID) {
		return nil, domain.NewForbiddenError("booking does not belong to this user")
	}

	from := bk.Status()
	if err := bk.Cancel(reason); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, bk); err != nil {
		return nil, asStorageError("update booking status", err)
	}

	s.publishStatusChanged(ctx, events.BookingCancelled, bk, from, reason)

	result := toBookingDTO(bk)
	return &result, nil
}

// ConfirmBooking moves a Pending booking to Confirmed. Requires role admin.
func (s *BookingService) ConfirmBooking(ctx context.Context, principal auth.Principal, bookingID uuid.UUID) (*BookingDTO, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	return s.confirm(ctx, bookingID)
}

// ConfirmBookingFromPayment confirms a booking on behalf of the payment
// system. It follows the same state table without a principal.
func (s *BookingService) ConfirmBookingFromPayment(ctx context.Context, bookingID uuid.UUID) (*BookingDTO, error) {
	return s.confirm(ctx, bookingID)
}

func (s *BookingService) confirm(ctx context.Context, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	from := bk.Status()
	if err := bk.Confirm(); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, bk); err != nil {
		return nil, asStorageError("update booking status", err)
	}

	s.publishStatusChanged(ctx, events.BookingConfirmed, bk, from, "")

	result := toBookingDTO(bk)
	return &result, nil
}

// CompleteBooking moves a Confirmed booking to Completed. Requires role admin.
func (s *BookingService) CompleteBooking(ctx context.Context, principal auth.Principal, bookingID uuid.UUID) (*BookingDTO, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}

	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	from := bk.Status()
	if err := bk.Complete(); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, bk); err != nil {
		return nil, asStorageError("update booking status", err)
	}

	s.publishStatusChanged(ctx, events.BookingCompleted, bk, from, "")

	result := toBookingDTO(bk)
	return &result, nil
}

// --- Admin methods ---

// BookingStatsDTO holds booking statistics for the admin dashboard.
type BookingStatsDTO struct {
	TotalBookings int64            `json:"totalBookings"`
	ByStatus      map[string]int64 `json:"byStatus"`
}

// ListAllBookings returns a paginated list of all bookings, optionally filtered by status.
func (s *BookingService) ListAllBookings(ctx context.Context, principal auth.Principal, status string, page, limit int) ([]BookingDTO, int64, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, 0, err
	}
	if status != "" {
		if _, err := bookingDomain.ParseBookingStatus(status); err != nil {
			return nil, 0, domain.NewFieldValidationError("status", err.Error())
		}
	}

	bookings, total, err := s.repo.ListAll(ctx, status, page, limit)
	if err != nil {
		return nil, 0, asStorageError("list all bookings", err)
	}

	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}
	return dtos, total, nil
}

// GetBookingStats returns aggregate booking statistics. Every status is
// present in ByStatus, zero when no booking has it.
func (s *BookingService) GetBookingStats(ctx context.Context, principal auth.Principal) (*BookingStatsDTO, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}

	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, asStorageError("count bookings", err)
	}

	byStatus := make(map[string]int64, len(counts))
	for _, st := range bookingDomain.AllStatuses() {
		byStatus[st.String()] = 0
	}
	var total int64
	for st, c := range counts {
		byStatus[st] = c
		total += c
	}

	return &BookingStatsDTO{
		TotalBookings: total,
		ByStatus:      byStatus,
	}, nil
}

// WaitForNotifications blocks until in-flight notifications finish or ctx is done.
func (s *BookingService) WaitForNotifications(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.notifications.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// --- Helpers ---

func authorizeRead(principal auth.Principal, bk *bookingDomain.Booking) error {
	if bk.IsOwnedBy(principal.ID) || principal.IsAdmin() {
		return nil
	}
	return domain.NewForbiddenError("booking does not belong to this user")
}

func requireAdmin(principal auth.Principal) error {
	if !principal.IsAdmin() {
		return domain.NewForbiddenError("admin role required")
	}
	return nil
}

// asStorageError passes typed domain errors through and wraps anything else.
func asStorageError(op string, err error) error {
	if domain.IsStorage(err) || domain.IsNotFound(err) || domain.IsConflict(err) || domain.IsValidation(err) {
		return err
	}
	return domain.NewStorageError(op, err)
}

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	return BookingDTO{
		BookingID:     bk.ID(),
		BookingNumber: bk.BookingNumber(),
		UserID:        bk.PrincipalID(),
		ServiceID:     bk.ServiceID(),
		ServiceName:   bk.ServiceName(),
		Status:        bk.Status().String(),
		Duration:      bk.Duration(),
		DurationType:  string(bk.DurationType()),
		Location:      bk.Location(),
		TotalCost:     bk.TotalCost(),
		Currency:      bk.Currency(),
		Notes:         bk.Notes(),
		CancelledAt:   bk.CancelledAt(),
		CancelReason:  bk.CancelReason(),
		CreatedAt:     bk.CreatedAt(),
		UpdatedAt:     bk.UpdatedAt(),
	}
}

func toBookingSummary(bk *bookingDomain.Booking) BookingSummary {
	return BookingSummary{
		BookingID:     bk.ID(),
		BookingNumber: bk.BookingNumber(),
		ServiceName:   bk.ServiceName(),
		Duration:      bk.Duration(),
		DurationType:  string(bk.DurationType()),
		Location:      bk.Location(),
		TotalCost:     bk.TotalCost(),
		Currency:      bk.Currency(),
		Status:        bk.Status().String(),
		Notes:         bk.Notes(),
		CreatedAt:     bk.CreatedAt(),
	}
}

// notifyBookingCreated runs the notifier on its own goroutine with a detached
// context so the caller's response is never delayed or failed by it.
func (s *BookingService) notifyBookingCreated(email string, bk *bookingDomain.Booking) {
	if s.notifier == nil || email == "" {
		return
	}
	summary := toBookingSummary(bk)

	s.notifications.Add(1)
	go func() {
		defer s.notifications.Done()
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("booking notifier panicked",
					zap.String("booking_id", summary.BookingID.String()),
					zap.Any("panic", r),
				)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		if err := s.notifier.NotifyBookingCreated(ctx, email, summary); err != nil {
			s.logger.Warn("failed to send booking notification",
				zap.String("booking_id", summary.BookingID.String()),
				zap.Error(err),
			)
		}
	}()
}

func (s *BookingService) publishBookingCreated(ctx context.Context, principal auth.Principal, bk *bookingDomain.Booking) {
	evt := events.BookingCreatedEvent{
		BookingID:     bk.ID(),
		BookingNumber: bk.BookingNumber(),
		UserID:        principal.ID,
		UserEmail:     principal.Email,
		ServiceID:     bk.ServiceID(),
		ServiceName:   bk.ServiceName(),
		Duration:      bk.Duration(),
		DurationType:  string(bk.DurationType()),
		TotalCost:     bk.TotalCost(),
		Currency:      bk.Currency(),
		OccurredAt:    time.Now().UTC(),
	}
	s.publishEvent(ctx, events.TopicBookingEvents, events.BookingCreated, evt)
}

func (s *BookingService) publishStatusChanged(ctx context.Context, eventType string, bk *bookingDomain.Booking, from bookingDomain.BookingStatus, reason string) {
	evt := events.BookingStatusChangedEvent{
		BookingID:     bk.ID(),
		BookingNumber: bk.BookingNumber(),
		UserID:        bk.PrincipalID(),
		FromStatus:    from.String(),
		ToStatus:      bk.Status().String(),
		Reason:        reason,
		OccurredAt:    time.Now().UTC(),
	}
	s.publishEvent(ctx, events.TopicBookingEvents, eventType, evt)
}

func (s *BookingService) publishEvent(ctx context.Context, topic, eventType string, data interface{}) {
	if s.publisher == nil {
		return
	}

	cloudEvent, err := kafka.NewCloudEvent(eventSource, eventType, data)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := s.publisher.PublishEvent(ctx, topic, cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("topic", topic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
