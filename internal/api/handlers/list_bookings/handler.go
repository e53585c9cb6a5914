package list_bookings

import (
	"errors"
	"net/http"

	"github.com/Ramses120/Copper-Salon-sub000/internal/api/handlers"
	"github.com/Ramses120/Copper-Salon-sub000/internal/service/bookings"
	"github.com/Ramses120/Copper-Salon-sub000/internal/service/bookings/models"
)

const (
	msgInvalidStaffID = "staffId no válido"
	msgInvalidStatus  = "estado no válido, se espera pending, confirmed, completed o cancelled"
	msgInvalidFilter  = "filtro no válido, fecha debe tener el formato YYYY-MM-DD"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/bookings?staffId=&fecha=&estado=&telefono=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	staffID, err := handlers.QueryInt64(r, "staffId")
	if err != nil {
		h.logger.Warn("GET /bookings - Invalid staff ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}

	query := r.URL.Query()
	req := &models.ListBookingsRequest{
		StaffID:  staffID,
		Fecha:    optional(query.Get("fecha")),
		Estado:   optional(query.Get("estado")),
		Telefono: optional(query.Get("telefono")),
	}

	result, err := h.service.List(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidStatus):
			h.logger.Warn("GET /bookings - Invalid status: %s", query.Get("estado"))
			handlers.RespondBadRequest(w, msgInvalidStatus)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /bookings - Invalid filter: %v", err)
			handlers.RespondBadRequest(w, msgInvalidFilter)

		default:
			h.logger.Error("GET /bookings - Failed to list bookings: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /bookings - Bookings retrieved: total=%d", result.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
