package notifier

import (
	"time"

	"github.com/Ramses120/Copper-Salon-sub000/internal/domain"
)

// Типы событий бронирований
const (
	EventBookingCreated       = "booking.created"
	EventBookingRescheduled   = "booking.rescheduled"
	EventBookingStatusChanged = "booking.status_changed"
	EventBookingDeleted       = "booking.deleted"
)

// BookingEvent сообщение о изменении бронирования
type BookingEvent struct {
	Type       string    `json:"type"`
	BookingID  int64     `json:"bookingId"`
	StaffID    int64     `json:"staffId"`
	Fecha      string    `json:"fecha"`
	Hora       string    `json:"hora"`
	Estado     string    `json:"estado"`
	Servicios  []int64   `json:"servicios,omitempty"`
	Cliente    string    `json:"cliente,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// NewBookingEvent строит событие по бронированию
func NewBookingEvent(eventType string, b *domain.Booking, at time.Time) BookingEvent {
	return BookingEvent{
		Type:       eventType,
		BookingID:  b.ID,
		StaffID:    b.StaffID,
		Fecha:      b.BookingDate.Format(domain.DateFormat),
		Hora:       b.StartTime.String(),
		Estado:     string(b.Status),
		Servicios:  b.ServiceIDs(),
		Cliente:    b.ClientName,
		OccurredAt: at.UTC(),
	}
}
