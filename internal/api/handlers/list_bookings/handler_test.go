package list_bookings

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Ramses120/Copper-Salon-sub000/internal/service/bookings"
	"github.com/Ramses120/Copper-Salon-sub000/internal/service/bookings/models"
	"github.com/Ramses120/Copper-Salon-sub000/pkg/logger"
)

type mockService struct{ mock.Mock }

func (m *mockService) List(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	args := m.Called(ctx, req)
	if r := args.Get(0); r != nil {
		return r.(*models.BookingListResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func list(svc *mockService, url string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	NewHandler(svc, logger.Nop()).Handle(rec, httptest.NewRequest(http.MethodGet, url, nil))
	return rec
}

func TestHandler_PassesFilters(t *testing.T) {
	svc := &mockService{}
	svc.On("List", mock.Anything, mock.MatchedBy(func(r *models.ListBookingsRequest) bool {
		return r.StaffID != nil && *r.StaffID == 2 &&
			r.Fecha != nil && *r.Fecha == "2025-06-10" &&
			r.Estado != nil && *r.Estado == "confirmed" &&
			r.Telefono == nil
	})).Return(&models.BookingListResponse{Reservas: []models.BookingResponse{}, Total: 0}, nil)

	rec := list(svc, "/api/bookings?staffId=2&fecha=2025-06-10&estado=confirmed")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"reservas":[],"total":0}`, rec.Body.String())
}

func TestHandler_BadFilters(t *testing.T) {
	svc := &mockService{}
	svc.On("List", mock.Anything, mock.MatchedBy(func(r *models.ListBookingsRequest) bool {
		return r.Estado != nil
	})).Return(nil, bookings.ErrInvalidStatus)
	svc.On("List", mock.Anything, mock.Anything).Return(nil, bookings.ErrInvalidInput)

	assert.Equal(t, http.StatusBadRequest, list(svc, "/api/bookings?staffId=abc").Code)
	assert.Equal(t, http.StatusBadRequest, list(svc, "/api/bookings?estado=unknown").Code)
	assert.Equal(t, http.StatusBadRequest, list(svc, "/api/bookings?fecha=junio").Code)
}
