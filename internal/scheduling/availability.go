package scheduling

import (
	"github.com/Ramses120/Copper-Salon-sub000/pkg/types"
)

// SplitSlots делит сетку на свободные и занятые слоты, сохраняя порядок сетки.
// Слот s занят, если start <= s < end хотя бы для одного интервала.
func SplitSlots(slots []types.TimeString, busy []Interval) (available, occupied []types.TimeString, err error) {
	available = make([]types.TimeString, 0, len(slots))
	occupied = make([]types.TimeString, 0)

	for _, slot := range slots {
		m, err := slot.Minutes()
		if err != nil {
			return nil, nil, err
		}

		if isOccupied(m, busy) {
			occupied = append(occupied, slot)
		} else {
			available = append(available, slot)
		}
	}

	return available, occupied, nil
}

func isOccupied(minute int, busy []Interval) bool {
	for _, interval := range busy {
		if interval.Contains(minute) {
			return true
		}
	}
	return false
}
