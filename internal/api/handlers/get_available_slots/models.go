package get_available_slots

import (
	"github.com/Ramses120/Copper-Salon-sub000/internal/domain"
	getAvailableSlots "github.com/Ramses120/Copper-Salon-sub000/internal/usecase/get_available_slots"
	"github.com/Ramses120/Copper-Salon-sub000/pkg/types"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	Fecha          string   `json:"fecha"`
	StaffID        int64    `json:"staffId"`
	AvailableSlots []string `json:"availableSlots"`
	TotalSlots     int      `json:"totalSlots"`
	AvailableCount int      `json:"availableCount"`
	Ocupadas       []string `json:"ocupadas"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailabilityResponse {
	return &AvailabilityResponse{
		Fecha:          resp.Date.Format(domain.DateFormat),
		StaffID:        resp.StaffID,
		AvailableSlots: toStrings(resp.Available),
		TotalSlots:     resp.TotalSlots(),
		AvailableCount: resp.AvailableCount(),
		Ocupadas:       toStrings(resp.Occupied),
	}
}

func toStrings(slots []types.TimeString) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.String()
	}
	return out
}
