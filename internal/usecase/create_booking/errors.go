package create_booking

import "errors"

var (
	// ErrStaffNotFound возвращается, когда мастер не найден или неактивен
	ErrStaffNotFound = errors.New("create_booking: staff not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена или неактивна
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrInvalidDate возвращается, когда дата и время бронирования уже прошли
	ErrInvalidDate = errors.New("create_booking: invalid booking date")

	// ErrDayClosed возвращается, когда мастер не работает в указанный день
	ErrDayClosed = errors.New("create_booking: staff does not work on this date")

	// ErrInvalidTimeSlot возвращается, когда время не совпадает со слотом сетки
	ErrInvalidTimeSlot = errors.New("create_booking: invalid time slot")

	// ErrOutsideWorkingHours возвращается, когда бронирование заканчивается после конца рабочего дня
	ErrOutsideWorkingHours = errors.New("create_booking: booking ends after working hours")

	// ErrSlotNotAvailable возвращается, когда интервал пересекается с другим бронированием
	ErrSlotNotAvailable = errors.New("create_booking: slot is not available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
