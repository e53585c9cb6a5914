package get_staff_schedule

import (
	"context"

	"github.com/Ramses120/Copper-Salon-sub000/internal/service/schedule/models"
)

type ScheduleService interface {
	GetWeek(ctx context.Context, staffID int64) (*models.WeekScheduleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
