package schedule

import (
	"context"
	"time"

	"github.com/Ramses120/Copper-Salon-sub000/internal/domain"
)

// ScheduleRepository интерфейс репозитория расписаний мастеров
type ScheduleRepository interface {
	GetByStaffAndWeekday(ctx context.Context, staffID int64, weekday time.Weekday) (*domain.StaffSchedule, error)
	ListByStaff(ctx context.Context, staffID int64) ([]*domain.StaffSchedule, error)
	Upsert(ctx context.Context, s *domain.StaffSchedule) (*domain.StaffSchedule, error)
	Delete(ctx context.Context, staffID int64, weekday time.Weekday) error
}

// StaffRepository интерфейс репозитория мастеров
type StaffRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.StaffMember, error)
}

// AvailabilityCache интерфейс кэша доступности
type AvailabilityCache interface {
	InvalidateStaff(ctx context.Context, staffID int64) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
