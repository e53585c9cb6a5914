package update_staff_schedule

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Ramses120/Copper-Salon-sub000/internal/api/handlers"
	"github.com/Ramses120/Copper-Salon-sub000/internal/service/schedule"
	"github.com/Ramses120/Copper-Salon-sub000/internal/service/schedule/models"
)

const (
	msgInvalidStaffID     = "ID de estilista no válido"
	msgInvalidRequestBody = "cuerpo de la solicitud no válido"
	msgInvalidData        = "horario no válido"
	msgStaffNotFound      = "estilista no encontrado"
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

// Handle PUT /api/staff/{staffId}/schedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	staffID, err := handlers.PathInt64(r, "staffId")
	if err != nil {
		h.logger.Warn("PUT /staff/{id}/schedule - Invalid staff ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}

	var req models.UpsertScheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /staff/{id}/schedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.StaffID = staffID

	day, err := h.service.Upsert(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrStaffNotFound):
			h.logger.Warn("PUT /staff/{id}/schedule - Staff not found: staff_id=%d", staffID)
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("PUT /staff/{id}/schedule - Invalid schedule: staff_id=%d, %v", staffID, err)
			handlers.RespondError(w, http.StatusBadRequest, msgInvalidData+": "+validationDetail(err))

		default:
			h.logger.Error("PUT /staff/{id}/schedule - Failed to update schedule: staff_id=%d, error=%v", staffID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /staff/{id}/schedule - Schedule updated: staff_id=%d, weekday=%d", staffID, req.Weekday)
	handlers.RespondJSON(w, http.StatusOK, day)
}

// validationDetail текст ошибки валидации без префикса пакета
func validationDetail(err error) string {
	return strings.TrimPrefix(err.Error(), schedule.ErrInvalidInput.Error()+": ")
}
