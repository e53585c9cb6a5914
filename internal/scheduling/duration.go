package scheduling

import (
	"fmt"

	"github.com/Ramses120/Copper-Salon-sub000/internal/domain"
)

// DurationResolver вычисляет, сколько минут занимает существующее бронирование
type DurationResolver interface {
	Duration(b *domain.Booking) int
}

// SnapshotResolver берет длительности, сохраненные в booking_services при создании
type SnapshotResolver struct{}

func (SnapshotResolver) Duration(b *domain.Booking) int {
	return b.SnapshotDuration()
}

// LiveResolver берет текущие длительности услуг из каталога.
// Если услуга пропала из каталога, используется сохраненная длительность.
type LiveResolver struct {
	durations map[int64]int
}

// NewLiveResolver строит резолвер по текущему состоянию каталога
func NewLiveResolver(services []*domain.Service) LiveResolver {
	durations := make(map[int64]int, len(services))
	for _, s := range services {
		durations[s.ID] = s.DurationMinutes
	}
	return LiveResolver{durations: durations}
}

func (r LiveResolver) Duration(b *domain.Booking) int {
	if len(b.Services) == 0 {
		return b.DurationMinutes
	}
	total := 0
	for _, link := range b.Services {
		if current, ok := r.durations[link.ServiceID]; ok {
			total += current
			continue
		}
		total += link.DurationMinutes
	}
	return total
}

// OccupiedIntervals интервалы, занятые бронированиями в статусах pending и confirmed.
// Остальные статусы слоты не блокируют.
func OccupiedIntervals(bookings []*domain.Booking, resolver DurationResolver) ([]Interval, error) {
	intervals := make([]Interval, 0, len(bookings))
	for _, b := range bookings {
		if !b.OccupiesSlots() {
			continue
		}

		duration := resolver.Duration(b)
		if duration <= 0 {
			continue
		}

		interval, err := NewInterval(b.ID, b.StartTime, duration)
		if err != nil {
			return nil, fmt.Errorf("booking id=%d: %w", b.ID, err)
		}
		intervals = append(intervals, interval)
	}
	return intervals, nil
}

// TotalDuration сумма длительностей услуг
func TotalDuration(services []*domain.Service) int {
	total := 0
	for _, s := range services {
		total += s.DurationMinutes
	}
	return total
}
