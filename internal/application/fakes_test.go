package application

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"

	bookingDomain "github.com/care-io/service-booking/internal/domain/booking"
	"github.com/care-io/service-booking/internal/domain/catalog"
	userDomain "github.com/care-io/service-booking/internal/domain/user"
	"github.com/care-io/service-booking/pkg/domain"
	"github.com/care-io/service-booking/pkg/kafka"
)

type memBookingRepo struct {
	mu           sync.Mutex
	bookings     map[uuid.UUID]*bookingDomain.Booking
	statusWrites int
	saveErr      error
	updateErr    error
}

func newMemBookingRepo() *memBookingRepo {
	return &memBookingRepo{bookings: map[uuid.UUID]*bookingDomain.Booking{}}
}

func (r *memBookingRepo) Save(_ context.Context, b *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.bookings[b.ID()] = b
	return nil
}

func (r *memBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, domain.NewNotFoundError("Booking", id.String())
	}
	return clone(b), nil
}

func (r *memBookingRepo) FindByPrincipal(_ context.Context, principalID uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*bookingDomain.Booking
	for _, b := range r.bookings {
		if b.PrincipalID() == principalID {
			out = append(out, clone(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt().After(out[j].CreatedAt()) })
	return paginate(out, page, limit), int64(len(out)), nil
}

func (r *memBookingRepo) UpdateStatus(_ context.Context, b *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	r.statusWrites++
	r.bookings[b.ID()] = clone(b)
	return nil
}

func (r *memBookingRepo) ListAll(_ context.Context, status string, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*bookingDomain.Booking
	for _, b := range r.bookings {
		if status == "" || b.Status().String() == status {
			out = append(out, clone(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt().After(out[j].CreatedAt()) })
	return paginate(out, page, limit), int64(len(out)), nil
}

func (r *memBookingRepo) CountByStatus(_ context.Context) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[string]int64{}
	for _, b := range r.bookings {
		counts[b.Status().String()]++
	}
	return counts, nil
}

func (r *memBookingRepo) writes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.statusWrites
}

func (r *memBookingRepo) put(b *bookingDomain.Booking) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[b.ID()] = b
}

func clone(b *bookingDomain.Booking) *bookingDomain.Booking {
	return bookingDomain.ReconstructBooking(
		b.ID(), b.BookingNumber(), b.PrincipalID(), b.ServiceID(), b.ServiceName(), b.Status(),
		b.Duration(), b.DurationType(), b.Location(), b.TotalCost(), b.Currency(), b.Notes(),
		b.CancelledAt(), b.CancelReason(), b.CreatedAt(), b.UpdatedAt(),
	)
}

func paginate[T any](items []T, page, limit int) []T {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		return items
	}
	start := (page - 1) * limit
	if start >= len(items) {
		return nil
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

type memServiceRepo struct {
	services map[uuid.UUID]*catalog.Service
	findErr  error
}

func newMemServiceRepo(services ...*catalog.Service) *memServiceRepo {
	r := &memServiceRepo{services: map[uuid.UUID]*catalog.Service{}}
	for _, s := range services {
		r.services[s.ID()] = s
	}
	return r
}

func (r *memServiceRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Service, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	s, ok := r.services[id]
	if !ok {
		return nil, domain.NewNotFoundError("Service", id.String())
	}
	return s, nil
}

func (r *memServiceRepo) List(_ context.Context, category string, page, limit int) ([]*catalog.Service, int64, error) {
	var out []*catalog.Service
	for _, s := range r.services {
		if category == "" || s.Category() == category {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt().After(out[j].CreatedAt()) })
	return paginate(out, page, limit), int64(len(out)), nil
}

func (r *memServiceRepo) Save(_ context.Context, s *catalog.Service) error {
	r.services[s.ID()] = s
	return nil
}

type memUserRepo struct {
	users map[uuid.UUID]*userDomain.User
	saved []*userDomain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[uuid.UUID]*userDomain.User{}}
}

func (r *memUserRepo) FindByID(_ context.Context, id uuid.UUID) (*userDomain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.NewNotFoundError("User", id.String())
	}
	return u, nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*userDomain.User, error) {
	for _, u := range r.users {
		if u.Email() == email {
			return u, nil
		}
	}
	return nil, domain.NewNotFoundError("User", email)
}

func (r *memUserRepo) FindByGoogleID(_ context.Context, googleID string) (*userDomain.User, error) {
	for _, u := range r.users {
		if googleID != "" && u.GoogleID() == googleID {
			return u, nil
		}
	}
	return nil, domain.NewNotFoundError("User", googleID)
}

func (r *memUserRepo) Save(_ context.Context, u *userDomain.User) error {
	r.users[u.ID()] = u
	r.saved = append(r.saved, u)
	return nil
}

func (r *memUserRepo) Update(_ context.Context, u *userDomain.User) error {
	if _, ok := r.users[u.ID()]; !ok {
		return domain.NewNotFoundError("User", u.ID().String())
	}
	r.users[u.ID()] = u
	return nil
}

type recordingNotifier struct {
	mu    sync.Mutex
	calls []notification
	err   error
	block chan struct{}
}

type notification struct {
	email   string
	summary BookingSummary
}

func (n *recordingNotifier) NotifyBookingCreated(ctx context.Context, email string, summary BookingSummary) error {
	if n.block != nil {
		select {
		case <-n.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, notification{email: email, summary: summary})
	return n.err
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.calls)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []kafka.CloudEvent
	err    error
}

func (p *recordingPublisher) PublishEvent(_ context.Context, _ string, ce kafka.CloudEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ce)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

var errDatabaseDown = errors.New("connection refused")
