package services

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Ramses120/Copper-Salon-sub000/internal/service/catalog"
	"github.com/Ramses120/Copper-Salon-sub000/internal/service/catalog/models"
	"github.com/Ramses120/Copper-Salon-sub000/pkg/logger"
)

type mockService struct{ mock.Mock }

func (m *mockService) ListServices(ctx context.Context, includeInactive bool) (*models.ServiceListResponse, error) {
	args := m.Called(ctx, includeInactive)
	if r := args.Get(0); r != nil {
		return r.(*models.ServiceListResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockService) CreateService(ctx context.Context, req *models.CreateServiceRequest) (*models.ServiceResponse, error) {
	args := m.Called(ctx, req)
	if r := args.Get(0); r != nil {
		return r.(*models.ServiceResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockService) UpdateService(ctx context.Context, id int64, req *models.UpdateServiceRequest) (*models.ServiceResponse, error) {
	args := m.Called(ctx, id, req)
	if r := args.Get(0); r != nil {
		return r.(*models.ServiceResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func router(svc *mockService) *mux.Router {
	h := NewHandler(svc, logger.Nop())
	r := mux.NewRouter()
	r.HandleFunc("/api/services", h.List).Methods(http.MethodGet)
	r.HandleFunc("/api/services", h.Create).Methods(http.MethodPost)
	r.HandleFunc("/api/services/{serviceId}", h.Update).Methods(http.MethodPut)
	return r
}

func do(svc *mockService, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router(svc).ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func TestHandler_List(t *testing.T) {
	svc := &mockService{}
	svc.On("ListServices", mock.Anything, false).Return(&models.ServiceListResponse{
		Servicios: []models.ServiceResponse{{ID: 1, Nombre: "Corte", Precio: 20, Duracion: 30, Activo: true}},
	}, nil)

	rec := do(svc, http.MethodGet, "/api/services", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"duracion":30`)
}

func TestHandler_Create(t *testing.T) {
	svc := &mockService{}
	svc.On("CreateService", mock.Anything, mock.MatchedBy(func(r *models.CreateServiceRequest) bool {
		return r.Duracion == 45
	})).Return(&models.ServiceResponse{ID: 3, Nombre: "Mechas", Duracion: 45}, nil)
	svc.On("CreateService", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: duracion out of range", catalog.ErrInvalidInput))

	assert.Equal(t, http.StatusCreated, do(svc, http.MethodPost, "/api/services", `{"nombre":"Mechas","precio":40,"duracion":45}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(svc, http.MethodPost, "/api/services", `{"nombre":"Mechas","precio":40,"duracion":500}`).Code)
}

func TestHandler_Update(t *testing.T) {
	svc := &mockService{}
	svc.On("UpdateService", mock.Anything, int64(3), mock.MatchedBy(func(r *models.UpdateServiceRequest) bool {
		return r.Duracion != nil && *r.Duracion == 60 && r.Nombre == nil
	})).Return(&models.ServiceResponse{ID: 3, Duracion: 60}, nil)
	svc.On("UpdateService", mock.Anything, int64(9), mock.Anything).Return(nil, catalog.ErrServiceNotFound)

	assert.Equal(t, http.StatusOK, do(svc, http.MethodPut, "/api/services/3", `{"duracion":60}`).Code)
	assert.Equal(t, http.StatusNotFound, do(svc, http.MethodPut, "/api/services/9", `{"duracion":60}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(svc, http.MethodPut, "/api/services/x", `{}`).Code)
}
