package handler

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	bookingDomain "github.com/care-io/service-booking/internal/domain/booking"
	"github.com/care-io/service-booking/internal/domain/catalog"
	userDomain "github.com/care-io/service-booking/internal/domain/user"
	"github.com/care-io/service-booking/pkg/domain"
)

type bookingStore struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*bookingDomain.Booking
}

func (s *bookingStore) Save(_ context.Context, b *bookingDomain.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings[b.ID()] = b
	return nil
}

func (s *bookingStore) FindByID(_ context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, domain.NewNotFoundError("Booking", id.String())
	}
	return b, nil
}

func (s *bookingStore) FindByPrincipal(_ context.Context, principalID uuid.UUID, _, _ int) ([]*bookingDomain.Booking, int64, error) {
	return s.filter(func(b *bookingDomain.Booking) bool { return b.IsOwnedBy(principalID) })
}

func (s *bookingStore) UpdateStatus(_ context.Context, _ *bookingDomain.Booking) error {
	return nil
}

func (s *bookingStore) ListAll(_ context.Context, status string, _, _ int) ([]*bookingDomain.Booking, int64, error) {
	return s.filter(func(b *bookingDomain.Booking) bool { return status == "" || b.Status().String() == status })
}

func (s *bookingStore) CountByStatus(_ context.Context) (map[string]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := map[string]int64{}
	for _, b := range s.bookings {
		counts[b.Status().String()]++
	}
	return counts, nil
}

func (s *bookingStore) filter(keep func(*bookingDomain.Booking) bool) ([]*bookingDomain.Booking, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*bookingDomain.Booking
	for _, b := range s.bookings {
		if keep(b) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt().After(out[j].CreatedAt()) })
	return out, int64(len(out)), nil
}

type serviceStore map[uuid.UUID]*catalog.Service

func (s serviceStore) FindByID(_ context.Context, id uuid.UUID) (*catalog.Service, error) {
	svc, ok := s[id]
	if !ok {
		return nil, domain.NewNotFoundError("Service", id.String())
	}
	return svc, nil
}

func (s serviceStore) List(_ context.Context, category string, _, _ int) ([]*catalog.Service, int64, error) {
	var out []*catalog.Service
	for _, svc := range s {
		if category == "" || svc.Category() == category {
			out = append(out, svc)
		}
	}
	return out, int64(len(out)), nil
}

func (s serviceStore) Save(_ context.Context, svc *catalog.Service) error {
	s[svc.ID()] = svc
	return nil
}

type userStore map[uuid.UUID]*userDomain.User

func (s userStore) FindByID(_ context.Context, id uuid.UUID) (*userDomain.User, error) {
	u, ok := s[id]
	if !ok {
		return nil, domain.NewNotFoundError("User", id.String())
	}
	return u, nil
}

func (s userStore) FindByEmail(_ context.Context, email string) (*userDomain.User, error) {
	for _, u := range s {
		if u.Email() == email {
			return u, nil
		}
	}
	return nil, domain.NewNotFoundError("User", email)
}

func (s userStore) FindByGoogleID(_ context.Context, googleID string) (*userDomain.User, error) {
	for _, u := range s {
		if u.GoogleID() != "" && u.GoogleID() == googleID {
			return u, nil
		}
	}
	return nil, domain.NewNotFoundError("User", googleID)
}

func (s userStore) Save(_ context.Context, u *userDomain.User) error {
	s[u.ID()] = u
	return nil
}

func (s userStore) Update(_ context.Context, u *userDomain.User) error {
	s[u.ID()] = u
	return nil
}
