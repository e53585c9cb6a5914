package domain

import (
	"time"

	"github.com/Ramses120/Copper-Salon-sub000/pkg/types"
)

// DayAvailability slot grid of one staff member on one date split into free and occupied
type DayAvailability struct {
	StaffID   int64
	Date      time.Time
	Slots     []types.TimeString
	Available []types.TimeString
	Occupied  []types.TimeString
}

// TotalSlots returns the size of the slot grid
func (a *DayAvailability) TotalSlots() int {
	return len(a.Slots)
}

// AvailableCount returns the number of free slots
func (a *DayAvailability) AvailableCount() int {
	return len(a.Available)
}

// IsFullyBooked returns true if no slot is free
func (a *DayAvailability) IsFullyBooked() bool {
	return len(a.Available) == 0
}
