package staff

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Ramses120/Copper-Salon-sub000/internal/api/handlers"
	"github.com/Ramses120/Copper-Salon-sub000/internal/service/catalog"
	"github.com/Ramses120/Copper-Salon-sub000/internal/service/catalog/models"
)

const (
	msgInvalidRequestBody = "cuerpo de la solicitud no válido"
	msgInvalidFlag        = "includeInactive debe ser true o false"
	msgInvalidData        = "el nombre del estilista es obligatorio"
)

// Handler GET и POST /api/staff
type Handler struct {
	service CatalogService
	logger  Logger
}

func NewHandler(service CatalogService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// List GET /api/staff?includeInactive=
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	includeInactive := false
	if raw := r.URL.Query().Get("includeInactive"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			h.logger.Warn("GET /staff - Invalid includeInactive: %q", raw)
			handlers.RespondBadRequest(w, msgInvalidFlag)
			return
		}
		includeInactive = v
	}

	result, err := h.service.ListStaff(r.Context(), includeInactive)
	if err != nil {
		h.logger.Error("GET /staff - Failed to list staff: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /staff - Staff retrieved: count=%d", len(result.Staff))
	handlers.RespondJSON(w, http.StatusOK, result)
}

// Create POST /api/staff
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateStaffRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /staff - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	created, err := h.service.CreateStaff(r.Context(), &req)
	if err != nil {
		if errors.Is(err, catalog.ErrInvalidInput) {
			h.logger.Warn("POST /staff - Invalid data: %v", err)
			handlers.RespondBadRequest(w, msgInvalidData)
			return
		}
		h.logger.Error("POST /staff - Failed to create staff: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /staff - Staff created: staff_id=%d", created.ID)
	handlers.RespondJSON(w, http.StatusCreated, created)
}
