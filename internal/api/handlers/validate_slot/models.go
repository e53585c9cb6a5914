package validate_slot

import (
	"github.com/Ramses120/Copper-Salon-sub000/internal/api/handlers"
	"github.com/Ramses120/Copper-Salon-sub000/internal/scheduling"
	validateSlot "github.com/Ramses120/Copper-Salon-sub000/internal/usecase/validate_slot"
	"github.com/Ramses120/Copper-Salon-sub000/pkg/types"
)

// ValidateRequest HTTP request model
type ValidateRequest struct {
	StaffID          int64   `json:"staffId"`
	Date             string  `json:"date"`              // "2025-06-10"
	StartTime        string  `json:"startTime"`         // "10:00"
	EndTime          *string `json:"endTime,omitempty"` // либо endTime, либо servicios
	Servicios        []int64 `json:"servicios,omitempty"`
	ExcludeBookingID *int64  `json:"excludeBookingId,omitempty"`
}

// ConflictResponse занятый интервал, с которым пересекается проверяемый
type ConflictResponse struct {
	BookingID int64  `json:"bookingId"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// ValidateResponse HTTP response model
type ValidateResponse struct {
	Available bool              `json:"available"`
	Reason    string            `json:"reason,omitempty"`
	Conflict  *ConflictResponse `json:"conflict,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ValidateRequest) ToUseCaseRequest() (*validateSlot.Request, error) {
	date, err := handlers.ParseDate(r.Date)
	if err != nil {
		return nil, err
	}

	start, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	req := &validateSlot.Request{
		StaffID:          r.StaffID,
		Date:             date,
		StartTime:        start,
		ServiceIDs:       r.Servicios,
		ExcludeBookingID: r.ExcludeBookingID,
	}

	if r.EndTime != nil && *r.EndTime != "" {
		end, err := types.NewTimeStringFromString(*r.EndTime)
		if err != nil {
			return nil, err
		}
		req.EndTime = &end
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *validateSlot.Response) *ValidateResponse {
	out := &ValidateResponse{
		Available: resp.Available,
		Reason:    resp.Reason,
	}
	if resp.Conflicting != nil {
		out.Conflict = fromInterval(*resp.Conflicting)
	}
	return out
}

// fromInterval конец интервала может быть 24:00 и позже
func fromInterval(i scheduling.Interval) *ConflictResponse {
	return &ConflictResponse{
		BookingID: i.BookingID,
		StartTime: i.StartTime(),
		EndTime:   i.EndTime(),
	}
}
