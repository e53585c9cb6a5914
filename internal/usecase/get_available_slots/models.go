package get_available_slots

import (
	"time"

	"github.com/Ramses120/Copper-Salon-sub000/internal/domain"
)

// Request модель запроса доступности мастера на дату
type Request struct {
	StaffID int64     // ID мастера
	Date    time.Time // Дата (без времени)
}

// Response сетка слотов дня, разделенная на свободные и занятые
type Response struct {
	domain.DayAvailability
	FromCache bool
}
