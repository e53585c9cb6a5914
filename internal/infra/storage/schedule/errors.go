package schedule

import "errors"

var (
	// ErrScheduleNotFound возвращается, когда для мастера нет расписания на день недели
	ErrScheduleNotFound = errors.New("schedule.repository: schedule not found")

	// ErrStaffNotFound возвращается при нарушении внешнего ключа на staff
	ErrStaffNotFound = errors.New("schedule.repository: staff not found")

	ErrBuildQuery = errors.New("schedule.repository: failed to build query")
	ErrExecQuery  = errors.New("schedule.repository: failed to execute query")
	ErrScanRow    = errors.New("schedule.repository: failed to scan row")
)
