package delete_staff_schedule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/Ramses120/Copper-Salon-sub000/internal/api/handlers"
	"github.com/Ramses120/Copper-Salon-sub000/internal/service/schedule"
)

const (
	msgInvalidStaffID  = "ID de estilista no válido"
	msgInvalidWeekday  = "día de la semana no válido, se espera 0 (domingo) a 6 (sábado)"
	msgStaffNotFound   = "estilista no encontrado"
	msgScheduleMissing = "el estilista no tiene horario propio para ese día"
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

// Handle DELETE /api/staff/{staffId}/schedule/{weekday}
// После удаления день берется из расписания салона
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	staffID, err := handlers.PathInt64(r, "staffId")
	if err != nil {
		h.logger.Warn("DELETE /staff/{id}/schedule/{weekday} - Invalid staff ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}

	weekday, err := strconv.Atoi(mux.Vars(r)["weekday"])
	if err != nil || weekday < 0 || weekday > 6 {
		h.logger.Warn("DELETE /staff/{id}/schedule/{weekday} - Invalid weekday: %q", mux.Vars(r)["weekday"])
		handlers.RespondBadRequest(w, msgInvalidWeekday)
		return
	}

	if err := h.service.Delete(r.Context(), staffID, weekday); err != nil {
		switch {
		case errors.Is(err, schedule.ErrStaffNotFound):
			handlers.RespondNotFound(w, msgStaffNotFound)
		case errors.Is(err, schedule.ErrScheduleNotFound):
			handlers.RespondNotFound(w, msgScheduleMissing)
		case errors.Is(err, schedule.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidWeekday)
		default:
			h.logger.Error("DELETE /staff/{id}/schedule/{weekday} - Failed to delete schedule: staff_id=%d, weekday=%d, error=%v",
				staffID, weekday, err)
			handlers.RespondInternalError(w)
			return
		}
		h.logger.Warn("DELETE /staff/{id}/schedule/{weekday} - staff_id=%d, weekday=%d: %v", staffID, weekday, err)
		return
	}

	h.logger.Info("DELETE /staff/{id}/schedule/{weekday} - Override removed: staff_id=%d, weekday=%d", staffID, weekday)
	w.WriteHeader(http.StatusNoContent)
}
