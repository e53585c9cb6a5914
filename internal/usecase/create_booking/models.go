package create_booking

import (
	"time"

	"github.com/Ramses120/Copper-Salon-sub000/internal/domain"
	"github.com/Ramses120/Copper-Salon-sub000/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	ServiceIDs  []int64          // Услуги в порядке выбора клиентом
	StaffID     int64            // ID мастера
	Date        time.Time        // Дата бронирования (без времени)
	StartTime   types.TimeString // Время начала, "10:00"
	ClientName  string
	ClientPhone string
	ClientEmail *string
	Notes       *string
}

// Response созданное бронирование (статус pending)
type Response struct {
	Booking *domain.Booking
}
