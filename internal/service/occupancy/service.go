package occupancy

import (
	"context"
	"fmt"
	"time"

	"github.com/Ramses120/Copper-Salon-sub000/internal/domain"
	"github.com/Ramses120/Copper-Salon-sub000/internal/scheduling"
)

// Service загружает занятые интервалы мастера на дату.
// Один и тот же источник используется расчетом доступности и проверкой конфликтов.
type Service struct {
	bookingRepo BookingRepository
	serviceRepo ServiceRepository
	policy      domain.DurationPolicy
}

// NewService создает сервис занятости с указанной политикой длительности
func NewService(bookingRepo BookingRepository, serviceRepo ServiceRepository, policy domain.DurationPolicy) *Service {
	if !policy.IsValid() {
		policy = domain.DurationSnapshot
	}
	return &Service{
		bookingRepo: bookingRepo,
		serviceRepo: serviceRepo,
		policy:      policy,
	}
}

// Policy возвращает действующую политику длительности
func (s *Service) Policy() domain.DurationPolicy {
	return s.policy
}

// BusyIntervals возвращает интервалы бронирований pending и confirmed.
// Внутри транзакции строки бронирований читаются FOR UPDATE.
func (s *Service) BusyIntervals(ctx context.Context, staffID int64, date time.Time, excludeBookingID *int64) ([]scheduling.Interval, error) {
	bookings, err := s.bookingRepo.List(ctx, domain.OccupyingFilter(staffID, date, excludeBookingID))
	if err != nil {
		return nil, fmt.Errorf("%w: BusyIntervals - list bookings: %w", ErrInternal, err)
	}

	resolver, err := s.resolver(ctx, bookings)
	if err != nil {
		return nil, err
	}

	intervals, err := scheduling.OccupiedIntervals(bookings, resolver)
	if err != nil {
		return nil, fmt.Errorf("%w: BusyIntervals - %v", ErrInternal, err)
	}
	return intervals, nil
}

func (s *Service) resolver(ctx context.Context, bookings []*domain.Booking) (scheduling.DurationResolver, error) {
	if s.policy != domain.DurationLive || len(bookings) == 0 {
		return scheduling.SnapshotResolver{}, nil
	}

	seen := make(map[int64]struct{})
	ids := make([]int64, 0)
	for _, b := range bookings {
		for _, id := range b.ServiceIDs() {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}

	services, err := s.serviceRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: BusyIntervals - load services: %w", ErrInternal, err)
	}
	return scheduling.NewLiveResolver(services), nil
}
