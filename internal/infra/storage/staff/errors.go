package staff

import "errors"

var (
	// ErrStaffNotFound возвращается, когда мастер не найден
	ErrStaffNotFound = errors.New("staff.repository: staff not found")

	ErrBuildQuery = errors.New("staff.repository: failed to build query")
	ErrExecQuery  = errors.New("staff.repository: failed to execute query")
	ErrScanRow    = errors.New("staff.repository: failed to scan row")
)
