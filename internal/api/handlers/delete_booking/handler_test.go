package delete_booking

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Ramses120/Copper-Salon-sub000/internal/service/bookings"
	"github.com/Ramses120/Copper-Salon-sub000/pkg/logger"
)

type mockService struct{ mock.Mock }

func (m *mockService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func del(svc *mockService, id string) int {
	r := mux.NewRouter()
	r.HandleFunc("/api/bookings/{bookingId}", NewHandler(svc, logger.Nop()).Handle).Methods(http.MethodDelete)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/bookings/"+id, nil))
	return rec.Code
}

func TestHandler(t *testing.T) {
	svc := &mockService{}
	svc.On("Delete", mock.Anything, int64(1)).Return(nil)
	svc.On("Delete", mock.Anything, int64(2)).Return(bookings.ErrBookingNotFound)
	svc.On("Delete", mock.Anything, int64(3)).Return(bookings.ErrInternal)

	assert.Equal(t, http.StatusNoContent, del(svc, "1"))
	assert.Equal(t, http.StatusNotFound, del(svc, "2"))
	assert.Equal(t, http.StatusInternalServerError, del(svc, "3"))
	assert.Equal(t, http.StatusBadRequest, del(svc, "x"))
}
