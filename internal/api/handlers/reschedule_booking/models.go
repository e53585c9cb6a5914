package reschedule_booking

import (
	"github.com/Ramses120/Copper-Salon-sub000/internal/api/handlers"
	rescheduleBooking "github.com/Ramses120/Copper-Salon-sub000/internal/usecase/reschedule_booking"
	"github.com/Ramses120/Copper-Salon-sub000/pkg/types"
)

// RescheduleRequest HTTP request model
type RescheduleRequest struct {
	StaffID   int64   `json:"staffId"`
	Fecha     string  `json:"fecha"` // "2025-06-10"
	Hora      string  `json:"hora"`  // "10:00"
	Servicios []int64 `json:"servicios"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RescheduleRequest) ToUseCaseRequest(bookingID int64) (*rescheduleBooking.Request, error) {
	date, err := handlers.ParseDate(r.Fecha)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.Hora)
	if err != nil {
		return nil, err
	}

	return &rescheduleBooking.Request{
		BookingID:  bookingID,
		StaffID:    r.StaffID,
		Date:       date,
		StartTime:  startTime,
		ServiceIDs: r.Servicios,
	}, nil
}
