package create_booking

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Ramses120/Copper-Salon-sub000/internal/domain"
	"github.com/Ramses120/Copper-Salon-sub000/internal/scheduling"
	"github.com/Ramses120/Copper-Salon-sub000/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.StaffID <= 0 {
		return fmt.Errorf("%w: staffId must be positive", ErrInvalidInput)
	}

	if len(req.ServiceIDs) == 0 {
		return fmt.Errorf("%w: servicios must not be empty", ErrInvalidInput)
	}
	if len(req.ServiceIDs) > domain.MaxServicesPerBooking {
		return fmt.Errorf("%w: at most %d servicios per booking", ErrInvalidInput, domain.MaxServicesPerBooking)
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

	return validateClient(req)
}

func validateClient(req *Request) error {
	name := strings.TrimSpace(req.ClientName)
	if name == "" {
		return fmt.Errorf("%w: cliente.nombre is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(name) > domain.MaxClientNameLength {
		return fmt.Errorf("%w: cliente.nombre is too long", ErrInvalidInput)
	}

	if strings.TrimSpace(req.ClientPhone) == "" {
		return fmt.Errorf("%w: cliente.telefono is required", ErrInvalidInput)
	}

	if req.ClientEmail != nil && *req.ClientEmail != "" {
		if _, err := mail.ParseAddress(*req.ClientEmail); err != nil {
			return fmt.Errorf("%w: invalid cliente.email", ErrInvalidInput)
		}
	}

	if req.Notes != nil && utf8.RuneCountInString(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notas must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateNotInPast проверяет, что начало бронирования еще не наступило.
// Дата и время сравниваются как локальное время салона.
func validateNotInPast(date time.Time, start types.TimeString, now time.Time) error {
	bookingDay := date.Format(domain.DateFormat)
	today := now.Format(domain.DateFormat)

	if bookingDay < today {
		return fmt.Errorf("%w: %s is in the past", ErrInvalidDate, bookingDay)
	}
	if bookingDay > today {
		return nil
	}

	startMinutes, err := start.Minutes()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if startMinutes <= now.Hour()*60+now.Minute() {
		return fmt.Errorf("%w: %s %s has already started", ErrInvalidDate, bookingDay, start)
	}
	return nil
}

// validateWorkingHours проверяет, что день рабочий, время совпадает со слотом
// и бронирование заканчивается не позже LastStart + SlotMinutes
func validateWorkingHours(day domain.DaySchedule, start types.TimeString, duration int) error {
	if !day.IsOpen {
		return ErrDayClosed
	}

	onGrid, err := scheduling.IsOnGrid(day.Window, start)
	if err != nil {
		return fmt.Errorf("%w: invalid working window: %v", ErrInternal, err)
	}
	if !onGrid {
		return fmt.Errorf("%w: %s is not a slot between %s and %s every %d minutes",
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

// resolveServices возвращает услуги в порядке запроса; неизвестные и неактивные отклоняются
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
