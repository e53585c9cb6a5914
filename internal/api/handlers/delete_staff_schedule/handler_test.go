package delete_staff_schedule

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Ramses120/Copper-Salon-sub000/internal/service/schedule"
	"github.com/Ramses120/Copper-Salon-sub000/pkg/logger"
)

type mockService struct{ mock.Mock }

func (m *mockService) Delete(ctx context.Context, staffID int64, weekday int) error {
	return m.Called(ctx, staffID, weekday).Error(0)
}

func del(svc *mockService, path string) int {
	r := mux.NewRouter()
	r.HandleFunc("/api/staff/{staffId}/schedule/{weekday}", NewHandler(svc, logger.Nop()).Handle).Methods(http.MethodDelete)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, path, nil))
	return rec.Code
}

func TestHandler(t *testing.T) {
	svc := &mockService{}
	svc.On("Delete", mock.Anything, int64(1), 6).Return(nil)
	svc.On("Delete", mock.Anything, int64(1), 0).Return(schedule.ErrScheduleNotFound)
	svc.On("Delete", mock.Anything, int64(1), 1).Return(schedule.ErrInternal)

	assert.Equal(t, http.StatusNoContent, del(svc, "/api/staff/1/schedule/6"))
	assert.Equal(t, http.StatusNotFound, del(svc, "/api/staff/1/schedule/0"))
	assert.Equal(t, http.StatusInternalServerError, del(svc, "/api/staff/1/schedule/1"))
	assert.Equal(t, http.StatusBadRequest, del(svc, "/api/staff/1/schedule/7"))
	assert.Equal(t, http.StatusBadRequest, del(svc, "/api/staff/0/schedule/1"))
}
