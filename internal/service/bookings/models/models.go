package models

import (
	"errors"
	"time"

	"github.com/Ramses120/Copper-Salon-sub000/internal/domain"
	"github.com/Ramses120/Copper-Salon-sub000/pkg/types"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrInvalidDate возвращается при дате не в формате YYYY-MM-DD
	ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")
)

// Request модели

// ListBookingsRequest фильтры списка бронирований, все опциональны
type ListBookingsRequest struct {
	StaffID  *int64
	Fecha    *string // "2025-06-10"
	Estado   *string
	Telefono *string
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListBookingsRequest) ToDomainFilter() (domain.BookingsFilter, error) {
	filter := domain.BookingsFilter{
		StaffID:     r.StaffID,
		ClientPhone: r.Telefono,
	}

	if r.Fecha != nil {
		date, err := time.Parse(domain.DateFormat, *r.Fecha)
		if err != nil {
			return filter, ErrInvalidDate
		}
		filter.Date = &date
	}

	if r.Estado != nil {
		status, err := ToDomainBookingStatus(*r.Estado)
		if err != nil {
			return filter, err
		}
		filter.Statuses = []domain.BookingStatus{status}
	}

	return filter, nil
}

// UpdateStatusRequest запрос на смену статуса бронирования
type UpdateStatusRequest struct {
	Estado string `json:"estado"`
}

// Response модели

// ClientResponse контактные данные клиента
type ClientResponse struct {
	Nombre   string  `json:"nombre"`
	Telefono string  `json:"telefono"`
	Email    *string `json:"email,omitempty"`
}

// BookingServiceResponse услуга в составе бронирования (снимок на момент записи)
type BookingServiceResponse struct {
	ServiceID int64   `json:"serviceId"`
	Nombre    string  `json:"nombre"`
	Precio    float64 `json:"precio"`
	Duracion  int     `json:"duracion"`
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID        int64                    `json:"id"`
	StaffID   int64                    `json:"staffId"`
	Fecha     string                   `json:"fecha"`   // "2025-06-10"
	Hora      string                   `json:"hora"`    // "10:00"
	HoraFin   string                   `json:"horaFin"` // "11:30"
	Duracion  int                      `json:"duracion"`
	Total     float64                  `json:"total"`
	Estado    string                   `json:"estado"`
	Cliente   ClientResponse           `json:"cliente"`
	Notas     *string                  `json:"notas,omitempty"`
	Servicios []BookingServiceResponse `json:"servicios"`
	CreatedAt string                   `json:"createdAt"`
	UpdatedAt string                   `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Reservas []BookingResponse `json:"reservas"`
	Total    int               `json:"total"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	endTime, err := b.StartTime.AddMinutes(b.DurationMinutes)
	if err != nil {
		endTime = types.TimeString("")
	}

	servicios := make([]BookingServiceResponse, 0, len(b.Services))
	for _, s := range b.Services {
		servicios = append(servicios, BookingServiceResponse{
			ServiceID: s.ServiceID,
			Nombre:    s.ServiceName,
			Precio:    s.Price,
			Duracion:  s.DurationMinutes,
		})
	}

	return &BookingResponse{
		ID:       b.ID,
		StaffID:  b.StaffID,
		Fecha:    b.BookingDate.Format(domain.DateFormat),
		Hora:     b.StartTime.String(),
		HoraFin:  endTime.String(),
		Duracion: b.DurationMinutes,
		Total:    b.TotalPrice,
		Estado:   string(b.Status),
		Cliente: ClientResponse{
			Nombre:   b.ClientName,
			Telefono: b.ClientPhone,
			Email:    b.ClientEmail,
		},
		Notas:     b.Notes,
		Servicios: servicios,
		CreatedAt: b.CreatedAt.Format(time.RFC3339),
		UpdatedAt: b.UpdatedAt.Format(time.RFC3339),
	}
}

// FromDomainBookingList конвертирует список domain моделей
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Reservas: make([]BookingResponse, 0, len(bookings)),
		Total:    len(bookings),
	}
	for _, b := range bookings {
		resp.Reservas = append(resp.Reservas, *FromDomainBooking(b))
	}
	return resp
}

// ToDomainBookingStatus конвертирует строку в статус
func ToDomainBookingStatus(s string) (domain.BookingStatus, error) {
	status := domain.BookingStatus(s)
	if !status.IsValid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}
