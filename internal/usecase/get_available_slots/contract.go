package get_available_slots

import (
	"context"
	"time"

	"github.com/Ramses120/Copper-Salon-sub000/internal/domain"
	availabilityCache "github.com/Ramses120/Copper-Salon-sub000/internal/infra/cache/availability"
	"github.com/Ramses120/Copper-Salon-sub000/internal/scheduling"
)

// ScheduleResolver резолвер рабочих часов мастера на дату
type ScheduleResolver interface {
	Resolve(ctx context.Context, staffID int64, date time.Time) (domain.DaySchedule, error)
}

// OccupancyService источник занятых интервалов мастера
type OccupancyService interface {
	BusyIntervals(ctx context.Context, staffID int64, date time.Time, excludeBookingID *int64) ([]scheduling.Interval, error)
}

// AvailabilityCache интерфейс кэша доступности.
// Stamp читается до запроса в БД, Set отбрасывает результат, если кэш успели инвалидировать.
type AvailabilityCache interface {
	Get(ctx context.Context, staffID int64, date time.Time) (*domain.DayAvailability, error)
	Stamp(ctx context.Context, staffID int64, date time.Time) (availabilityCache.Stamp, error)
	Set(ctx context.Context, a *domain.DayAvailability, stamp availabilityCache.Stamp) error
}

// Metrics счетчики обращений к кэшу
type Metrics interface {
	IncAvailabilityCache(result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
