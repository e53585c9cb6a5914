package scheduling

import (
	"github.com/Ramses120/Copper-Salon-sub000/internal/domain"
	"github.com/Ramses120/Copper-Salon-sub000/pkg/types"
)

// GenerateSlots строит сетку слотов рабочего окна: от Open до LastStart
// включительно с шагом SlotMinutes.
//
// Окно по умолчанию (09:00 - 17:30, 30 мин) дает 18 слотов: 09:00 ... 17:30.
func GenerateSlots(window domain.WorkingHoursWindow) ([]types.TimeString, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}

	open, _ := window.Open.Minutes()
	last, _ := window.LastStart.Minutes()

	slots := make([]types.TimeString, 0, (last-open)/window.SlotMinutes+1)
	for m := open; m <= last; m += window.SlotMinutes {
		slot, err := types.FromMinutes(m)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}

	return slots, nil
}

// GenerateDaySlots сетка слотов дня; закрытый день дает пустую сетку
func GenerateDaySlots(day domain.DaySchedule) ([]types.TimeString, error) {
	if !day.IsOpen {
		return []types.TimeString{}, nil
	}
	return GenerateSlots(day.Window)
}

// IsOnGrid проверяет, что время начала совпадает с одним из слотов окна
func IsOnGrid(window domain.WorkingHoursWindow, start types.TimeString) (bool, error) {
	if err := window.Validate(); err != nil {
		return false, err
	}

	m, err := start.Minutes()
	if err != nil {
		return false, err
	}
	open, _ := window.Open.Minutes()
	last, _ := window.LastStart.Minutes()

	return m >= open && m <= last && (m-open)%window.SlotMinutes == 0, nil
}
