package delete_staff_schedule

import "context"

type ScheduleService interface {
	Delete(ctx context.Context, staffID int64, weekday int) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
