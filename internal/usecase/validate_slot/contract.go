package validate_slot

import (
	"context"
	"time"

	"github.com/Ramses120/Copper-Salon-sub000/internal/domain"
	"github.com/Ramses120/Copper-Salon-sub000/internal/scheduling"
)

// OccupancyService источник занятых интервалов мастера
type OccupancyService interface {
	BusyIntervals(ctx context.Context, staffID int64, date time.Time, excludeBookingID *int64) ([]scheduling.Interval, error)
}

// ServiceRepository интерфейс каталога услуг
type ServiceRepository interface {
	GetByIDs(ctx context.Context, ids []int64) ([]*domain.Service, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
