package validate_slot

import (
	"errors"
	"net/http"

	"github.com/Ramses120/Copper-Salon-sub000/internal/api/handlers"
	validateSlot "github.com/Ramses120/Copper-Salon-sub000/internal/usecase/validate_slot"
)

const (
	msgInvalidRequestBody = "cuerpo de la solicitud no válido"
	msgInvalidDateTime    = "fecha u hora no válidas, se espera YYYY-MM-DD y HH:MM"
	msgInvalidInput       = "se requiere staffId, startTime y endTime o servicios"
	msgServiceNotFound    = "uno de los servicios no existe"
)

type Handler struct {
	useCase ValidateSlotUseCase
	logger  Logger
}

func NewHandler(useCase ValidateSlotUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/availability/validate
// Занятый интервал не является ошибкой: ответ 200 с available=false
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /availability/validate - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /availability/validate - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, validateSlot.ErrInvalidInput):
			h.logger.Warn("POST /availability/validate - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, validateSlot.ErrServiceNotFound):
			h.logger.Warn("POST /availability/validate - Service not found: servicios=%v", req.Servicios)
			handlers.RespondBadRequest(w, msgServiceNotFound)

		default:
			h.logger.Error("POST /availability/validate - Failed to validate slot: staff_id=%d, error=%v", req.StaffID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /availability/validate - staff_id=%d, date=%s, start=%s, available=%t",
		req.StaffID, req.Date, req.StartTime, result.Available)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
