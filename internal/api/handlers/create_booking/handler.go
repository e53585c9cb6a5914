package create_booking

import (
	"errors"
	"net/http"

	"github.com/Ramses120/Copper-Salon-sub000/internal/api/handlers"
	createBooking "github.com/Ramses120/Copper-Salon-sub000/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "cuerpo de la solicitud no válido"
	msgInvalidDate        = "fecha no válida, se espera YYYY-MM-DD"
	msgInvalidTime        = "hora no válida, se espera HH:MM"
	msgInvalidInput       = "datos de la reserva no válidos"
	msgSlotNotAvailable   = "el horario seleccionado ya no está disponible"
	msgStaffNotFound      = "estilista no encontrado"
	msgServiceNotFound    = "uno de los servicios no existe o no está activo"
	msgDayClosed          = "el estilista no trabaja en la fecha seleccionada"
	msgInvalidTimeSlot    = "la hora no corresponde a un turno disponible"
	msgOutsideHours       = "la reserva termina después del horario de cierre"
	msgPastDate           = "no se puede reservar en una fecha u hora pasada"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		var pe *parseError
		if errors.As(err, &pe) && pe.field == "hora" {
			handlers.RespondBadRequest(w, msgInvalidTime)
		} else {
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotNotAvailable):
			h.logger.Warn("POST /bookings - Slot not available: staff_id=%d, fecha=%s, hora=%s", req.StaffID, req.Fecha, req.Hora)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, createBooking.ErrStaffNotFound):
			h.logger.Warn("POST /bookings - Staff not found: staff_id=%d", req.StaffID)
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, createBooking.ErrServiceNotFound):
			h.logger.Warn("POST /bookings - Service not found: servicios=%v", req.Servicios)
			handlers.RespondBadRequest(w, msgServiceNotFound)

		case errors.Is(err, createBooking.ErrDayClosed):
			h.logger.Warn("POST /bookings - Day closed: staff_id=%d, fecha=%s", req.StaffID, req.Fecha)
			handlers.RespondBadRequest(w, msgDayClosed)

		case errors.Is(err, createBooking.ErrInvalidTimeSlot):
			h.logger.Warn("POST /bookings - Invalid time slot: hora=%s", req.Hora)
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, createBooking.ErrOutsideWorkingHours):
			h.logger.Warn("POST /bookings - Outside working hours: hora=%s", req.Hora)
			handlers.RespondBadRequest(w, msgOutsideHours)

		case errors.Is(err, createBooking.ErrInvalidDate):
			h.logger.Warn("POST /bookings - Date in the past: fecha=%s, hora=%s", req.Fecha, req.Hora)
			handlers.RespondBadRequest(w, msgPastDate)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: staff_id=%d, error=%v", req.StaffID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, staff_id=%d",
		result.Booking.ID, result.Booking.StaffID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
