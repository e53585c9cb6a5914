package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/Ramses120/Copper-Salon-sub000/internal/api/handlers"
	getAvailableSlots "github.com/Ramses120/Copper-Salon-sub000/internal/usecase/get_available_slots"
)

const (
	msgMissingParams  = "los parámetros staffId y fecha son obligatorios"
	msgInvalidStaffID = "staffId no válido"
	msgInvalidDate    = "fecha no válida, se espera YYYY-MM-DD"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/availability?staffId=<id>&fecha=<YYYY-MM-DD>
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if query.Get("staffId") == "" || query.Get("fecha") == "" {
		h.logger.Warn("GET /availability - Missing parameters: staffId=%q, fecha=%q", query.Get("staffId"), query.Get("fecha"))
		handlers.RespondBadRequest(w, msgMissingParams)
		return
	}

	staffID, err := handlers.QueryInt64(r, "staffId")
	if err != nil {
		h.logger.Warn("GET /availability - Invalid staff ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}

	date, err := handlers.ParseDate(query.Get("fecha"))
	if err != nil {
		h.logger.Warn("GET /availability - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailableSlots.Request{StaffID: *staffID, Date: date})
	if err != nil {
		if errors.Is(err, getAvailableSlots.ErrInvalidInput) {
			h.logger.Warn("GET /availability - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgMissingParams)
			return
		}
		h.logger.Error("GET /availability - Failed to get availability: staff_id=%d, error=%v", *staffID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /availability - Availability retrieved: staff_id=%d, fecha=%s, available=%d/%d, cached=%t",
		*staffID, query.Get("fecha"), result.AvailableCount(), result.TotalSlots(), result.FromCache)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
