package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/Ramses120/Copper-Salon-sub000/internal/domain"
	availabilityCache "github.com/Ramses120/Copper-Salon-sub000/internal/infra/cache/availability"
	"github.com/Ramses120/Copper-Salon-sub000/internal/scheduling"
	"github.com/Ramses120/Copper-Salon-sub000/pkg/metrics"
)

// UseCase use case расчета доступных слотов мастера на дату
type UseCase struct {
	schedule  ScheduleResolver
	occupancy OccupancyService
	cache     AvailabilityCache
	metrics   Metrics
	logger    Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	schedule ScheduleResolver,
	occupancy OccupancyService,
	cache AvailabilityCache,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		schedule:  schedule,
		occupancy: occupancy,
		cache:     cache,
		metrics:   metrics,
		logger:    logger,
	}
}

// Execute выполняет use case получения доступных слотов.
// Неизвестный мастер или день без бронирований не ошибка: все слоты свободны.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: staff=%d, date=%s", req.StaffID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Кэш
	cached, err := uc.cache.Get(ctx, req.StaffID, req.Date)
	switch {
	case err == nil:
		uc.metrics.IncAvailabilityCache(metrics.CacheHit)
		return &Response{DayAvailability: *cached, FromCache: true}, nil
	case errors.Is(err, availabilityCache.ErrCacheMiss):
		uc.metrics.IncAvailabilityCache(metrics.CacheMiss)
	default:
		uc.metrics.IncAvailabilityCache(metrics.CacheError)
		uc.logger.Warn("GetAvailableSlots: cache read failed, computing from db: %v", err)
	}

	// Поколение кэша фиксируется до чтения БД: запись, закоммиченная позже, не даст сохранить устаревший результат
	stamp, err := uc.cache.Stamp(ctx, req.StaffID, req.Date)
	cacheable := err == nil
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: cache stamp failed, result will not be cached: %v", err)
	}

	// 3. Рабочие часы мастера на этот день недели
	day, err := uc.schedule.Resolve(ctx, req.StaffID, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to resolve schedule: %v", err)
		return nil, fmt.Errorf("%w: failed to resolve schedule: %v", ErrInternal, err)
	}

	// 4. Сетка слотов
	slots, err := scheduling.GenerateDaySlots(day)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to generate slots for staff=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: failed to generate slots: %v", ErrInternal, err)
	}

	// 5. Занятые интервалы (pending и confirmed)
	busy, err := uc.occupancy.BusyIntervals(ctx, req.StaffID, req.Date, nil)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 6. Разделяем сетку на свободные и занятые слоты
	available, occupied, err := scheduling.SplitSlots(slots, busy)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to split slots: %v", err)
		return nil, fmt.Errorf("%w: failed to split slots: %v", ErrInternal, err)
	}

	result := domain.DayAvailability{
		StaffID:   req.StaffID,
		Date:      req.Date,
		Slots:     slots,
		Available: available,
		Occupied:  occupied,
	}

	if cacheable {
		err := uc.cache.Set(ctx, &result, stamp)
		switch {
		case errors.Is(err, availabilityCache.ErrStale):
			uc.logger.Info("GetAvailableSlots: staff=%d, date=%s changed while reading, not cached",
				req.StaffID, req.Date.Format(domain.DateFormat))
		case err != nil:
			uc.logger.Warn("GetAvailableSlots: failed to cache availability: %v", err)
		}
	}

	uc.logger.Info("GetAvailableSlots: staff=%d, date=%s, %d/%d slots available (%s)",
		req.StaffID, req.Date.Format(domain.DateFormat), len(available), len(slots), day.Level)

	return &Response{DayAvailability: result}, nil
}
