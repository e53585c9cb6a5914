package reschedule_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("reschedule_booking: booking not found")

	// ErrInvalidStatus возвращается при попытке перенести завершенное или отмененное бронирование
	ErrInvalidStatus = errors.New("reschedule_booking: booking can not be rescheduled in current status")

	// ErrStaffNotFound возвращается, когда мастер не найден или неактивен
	ErrStaffNotFound = errors.New("reschedule_booking: staff not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена или неактивна
	ErrServiceNotFound = errors.New("reschedule_booking: service not found")

	// ErrInvalidDate возвращается, когда новое время уже прошло
	ErrInvalidDate = errors.New("reschedule_booking: invalid booking date")

	// ErrDayClosed возвращается, когда мастер не работает в указанный день
	ErrDayClosed = errors.New("reschedule_booking: staff does not work on this date")

	// ErrInvalidTimeSlot возвращается, когда время не совпадает со слотом сетки
	ErrInvalidTimeSlot = errors.New("reschedule_booking: invalid time slot")

	// ErrOutsideWorkingHours возвращается, когда бронирование заканчивается после конца рабочего дня
	ErrOutsideWorkingHours = errors.New("reschedule_booking: booking ends after working hours")

	// ErrSlotNotAvailable возвращается, когда новый интервал пересекается с другим бронированием
	ErrSlotNotAvailable = errors.New("reschedule_booking: slot is not available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reschedule_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reschedule_booking: internal error")
)
