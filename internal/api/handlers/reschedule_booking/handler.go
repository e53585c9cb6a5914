package reschedule_booking

import (
	"errors"
	"net/http"

	"github.com/Ramses120/Copper-Salon-sub000/internal/api/handlers"
	bookingsModels "github.com/Ramses120/Copper-Salon-sub000/internal/service/bookings/models"
	rescheduleBooking "github.com/Ramses120/Copper-Salon-sub000/internal/usecase/reschedule_booking"
)

const (
	msgInvalidBookingID   = "ID de reserva no válido"
	msgInvalidRequestBody = "cuerpo de la solicitud no válido"
	msgInvalidDateTime    = "fecha u hora no válidas, se espera YYYY-MM-DD y HH:MM"
	msgInvalidInput       = "datos de la reserva no válidos"
	msgNotFound           = "reserva no encontrada"
	msgInvalidStatus      = "solo se pueden mover reservas pendientes o confirmadas"
	msgSlotNotAvailable   = "el horario seleccionado ya no está disponible"
	msgStaffNotFound      = "estilista no encontrado"
	msgServiceNotFound    = "uno de los servicios no existe o no está activo"
	msgDayClosed          = "el estilista no trabaja en la fecha seleccionada"
	msgInvalidTimeSlot    = "la hora no corresponde a un turno disponible"
	msgOutsideHours       = "la reserva termina después del horario de cierre"
	msgPastDate           = "no se puede reservar en una fecha u hora pasada"
)

type Handler struct {
	useCase RescheduleBookingUseCase
	logger  Logger
}

func NewHandler(useCase RescheduleBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PUT /api/bookings/{bookingId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		h.logger.Warn("PUT /bookings/{id} - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req RescheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /bookings/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(bookingID)
	if err != nil {
		h.logger.Warn("PUT /bookings/{id} - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, rescheduleBooking.ErrSlotNotAvailable):
			h.logger.Warn("PUT /bookings/{id} - Slot not available: booking_id=%d, staff_id=%d, fecha=%s, hora=%s",
				bookingID, req.StaffID, req.Fecha, req.Hora)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, rescheduleBooking.ErrBookingNotFound):
			h.logger.Warn("PUT /bookings/{id} - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, rescheduleBooking.ErrStaffNotFound):
			h.logger.Warn("PUT /bookings/{id} - Staff not found: staff_id=%d", req.StaffID)
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, rescheduleBooking.ErrInvalidStatus):
			h.logger.Warn("PUT /bookings/{id} - %v", err)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		case errors.Is(err, rescheduleBooking.ErrServiceNotFound):
			handlers.RespondBadRequest(w, msgServiceNotFound)

		case errors.Is(err, rescheduleBooking.ErrDayClosed):
			handlers.RespondBadRequest(w, msgDayClosed)

		case errors.Is(err, rescheduleBooking.ErrInvalidTimeSlot):
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, rescheduleBooking.ErrOutsideWorkingHours):
			handlers.RespondBadRequest(w, msgOutsideHours)

		case errors.Is(err, rescheduleBooking.ErrInvalidDate):
			handlers.RespondBadRequest(w, msgPastDate)

		case errors.Is(err, rescheduleBooking.ErrInvalidInput):
			h.logger.Warn("PUT /bookings/{id} - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("PUT /bookings/{id} - Failed to reschedule booking: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /bookings/{id} - Booking rescheduled: booking_id=%d", bookingID)
	handlers.RespondJSON(w, http.StatusOK, bookingsModels.FromDomainBooking(result.Booking))
}
