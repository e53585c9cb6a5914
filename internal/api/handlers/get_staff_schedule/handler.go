package get_staff_schedule

import (
	"errors"
	"net/http"

	"github.com/Ramses120/Copper-Salon-sub000/internal/api/handlers"
	"github.com/Ramses120/Copper-Salon-sub000/internal/service/schedule"
)

const (
	msgInvalidStaffID = "ID de estilista no válido"
	msgStaffNotFound  = "estilista no encontrado"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/staff/{staffId}/schedule
// Возвращает 7 дней с учетом иерархии: мастер > день салона > окно салона
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	staffID, err := handlers.PathInt64(r, "staffId")
	if err != nil {
		h.logger.Warn("GET /staff/{id}/schedule - Invalid staff ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}

	week, err := h.service.GetWeek(r.Context(), staffID)
	if err != nil {
		if errors.Is(err, schedule.ErrStaffNotFound) {
			h.logger.Warn("GET /staff/{id}/schedule - Staff not found: staff_id=%d", staffID)
			handlers.RespondNotFound(w, msgStaffNotFound)
			return
		}
		h.logger.Error("GET /staff/{id}/schedule - Failed to get schedule: staff_id=%d, error=%v", staffID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /staff/{id}/schedule - Schedule retrieved: staff_id=%d", staffID)
	handlers.RespondJSON(w, http.StatusOK, week)
}
