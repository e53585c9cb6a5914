package reschedule_booking

import (
	"fmt"

	"github.com/Ramses120/Copper-Salon-sub000/internal/domain"
	"github.com/Ramses120/Copper-Salon-sub000/internal/scheduling"
	"github.com/Ramses120/Copper-Salon-sub000/pkg/types"
)

func validateRequest(req *Request) error {
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingId must be positive", ErrInvalidInput)
	}
	if req.StaffID <= 0 {
		return fmt.Errorf("%w: staffId must be positive", ErrInvalidInput)
	}
	if len(req.ServiceIDs) == 0 || len(req.ServiceIDs) > domain.MaxServicesPerBooking {
		return fmt.Errorf("%w: servicios must contain 1..%d ids", ErrInvalidInput, domain.MaxServicesPerBooking)
	}
	seen := make(map[int64]struct{}, len(req.ServiceIDs))
	for _, id := range req.ServiceIDs {
		if id <= 0 {
			return fmt.Errorf("%w: service id must be positive", ErrInvalidInput)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicated service id=%d", ErrInvalidInput, id)
		}
		seen[id] = struct{}{}
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: fecha is required", ErrInvalidInput)
	}
	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid hora: %v", ErrInvalidInput, err)
	}
	return nil
}

func validateWorkingHours(day domain.DaySchedule, start types.TimeString, duration int) error {
	if !day.IsOpen {
		return ErrDayClosed
	}

	onGrid, err := scheduling.IsOnGrid(day.Window, start)
	if err != nil {
		return fmt.Errorf("%w: invalid working window: %v", ErrInternal, err)
	}
	if !onGrid {
		return fmt.Errorf("%w: %s is not a slot of %s-%s/%d",
			ErrInvalidTimeSlot, start, day.Window.Open, day.Window.LastStart, day.Window.SlotMinutes)
	}

	closeMinutes, err := day.Window.CloseMinutes()
	if err != nil {
		return fmt.Errorf("%w: invalid working window: %v", ErrInternal, err)
	}
	startMinutes, _ := start.Minutes()
	if startMinutes+duration > closeMinutes {
		return fmt.Errorf("%w: %s + %d min ends after closing", ErrOutsideWorkingHours, start, duration)
	}
	return nil
}

func resolveServices(ids []int64, found []*domain.Service) ([]*domain.Service, error) {
	byID := make(map[int64]*domain.Service, len(found))
	for _, s := range found {
		byID[s.ID] = s
	}

	ordered := make([]*domain.Service, 0, len(ids))
	for _, id := range ids {
		s, ok := byID[id]
		if !ok || !s.Active {
			return nil, fmt.Errorf("%w: id=%d", ErrServiceNotFound, id)
		}
		ordered = append(ordered, s)
	}
	return ordered, nil
}
