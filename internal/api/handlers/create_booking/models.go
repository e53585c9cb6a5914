package create_booking

import (
	"fmt"

	"github.com/Ramses120/Copper-Salon-sub000/internal/api/handlers"
	bookingsModels "github.com/Ramses120/Copper-Salon-sub000/internal/service/bookings/models"
	createBooking "github.com/Ramses120/Copper-Salon-sub000/internal/usecase/create_booking"
	"github.com/Ramses120/Copper-Salon-sub000/pkg/types"
)

// ClientRequest контактные данные клиента
type ClientRequest struct {
	Nombre   string  `json:"nombre"`
	Telefono string  `json:"telefono"`
	Email    *string `json:"email,omitempty"`
}

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	Servicios []int64       `json:"servicios"`
	StaffID   int64         `json:"staffId"`
	Fecha     string        `json:"fecha"` // "2025-06-10"
	Hora      string        `json:"hora"`  // "10:00"
	Cliente   ClientRequest `json:"cliente"`
	Notas     *string       `json:"notas,omitempty"`
}

// parseError ошибка разбора поля запроса
type parseError struct {
	field string
	err   error
}

func (e *parseError) Error() string {
	return fmt.Sprintf("%s: %v", e.field, e.err)
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest() (*createBooking.Request, error) {
	date, err := handlers.ParseDate(r.Fecha)
	if err != nil {
		return nil, &parseError{field: "fecha", err: err}
	}

	startTime, err := types.NewTimeStringFromString(r.Hora)
	if err != nil {
		return nil, &parseError{field: "hora", err: err}
	}

	return &createBooking.Request{
		ServiceIDs:  r.Servicios,
		StaffID:     r.StaffID,
		Date:        date,
		StartTime:   startTime,
		ClientName:  r.Cliente.Nombre,
		ClientPhone: r.Cliente.Telefono,
		ClientEmail: r.Cliente.Email,
		Notes:       r.Notas,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *bookingsModels.BookingResponse {
	return bookingsModels.FromDomainBooking(resp.Booking)
}
