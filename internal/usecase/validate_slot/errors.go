package validate_slot

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("validate_slot: invalid input data")

	// ErrServiceNotFound возвращается, когда услуга из списка не найдена
	ErrServiceNotFound = errors.New("validate_slot: service not found")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("validate_slot: internal error")
)
