package reschedule_booking

import (
	"time"

	"github.com/Ramses120/Copper-Salon-sub000/internal/domain"
	"github.com/Ramses120/Copper-Salon-sub000/pkg/types"
)

// Request перенос бронирования. Данные клиента и заметки не меняются.
type Request struct {
	BookingID  int64
	StaffID    int64
	Date       time.Time
	StartTime  types.TimeString
	ServiceIDs []int64
}

// Response бронирование после переноса
type Response struct {
	Booking *domain.Booking
}
