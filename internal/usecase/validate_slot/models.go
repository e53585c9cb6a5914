package validate_slot

import (
	"time"

	"github.com/Ramses120/Copper-Salon-sub000/internal/scheduling"
	"github.com/Ramses120/Copper-Salon-sub000/pkg/types"
)

// Request проверка предлагаемого интервала.
// Конец задается либо EndTime, либо списком услуг.
type Request struct {
	StaffID          int64
	Date             time.Time
	StartTime        types.TimeString
	EndTime          *types.TimeString
	ServiceIDs       []int64
	ExcludeBookingID *int64
}

// Response результат проверки
type Response struct {
	Available   bool
	Reason      string
	Proposed    scheduling.Interval
	Conflicting *scheduling.Interval
}
