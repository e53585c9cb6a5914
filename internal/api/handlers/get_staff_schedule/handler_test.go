package get_staff_schedule

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Ramses120/Copper-Salon-sub000/internal/service/schedule"
	"github.com/Ramses120/Copper-Salon-sub000/internal/service/schedule/models"
	"github.com/Ramses120/Copper-Salon-sub000/pkg/logger"
)

type mockService struct{ mock.Mock }

func (m *mockService) GetWeek(ctx context.Context, staffID int64) (*models.WeekScheduleResponse, error) {
	args := m.Called(ctx, staffID)
	if r := args.Get(0); r != nil {
		return r.(*models.WeekScheduleResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func get(svc *mockService, id string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/api/staff/{staffId}/schedule", NewHandler(svc, logger.Nop()).Handle)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/staff/"+id+"/schedule", nil))
	return rec
}

func TestHandler(t *testing.T) {
	svc := &mockService{}
	svc.On("GetWeek", mock.Anything, int64(1)).Return(&models.WeekScheduleResponse{StaffID: 1}, nil)
	svc.On("GetWeek", mock.Anything, int64(2)).Return(nil, schedule.ErrStaffNotFound)

	rec := get(svc, "1")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"staffId":1`)

	assert.Equal(t, http.StatusNotFound, get(svc, "2").Code)
	assert.Equal(t, http.StatusBadRequest, get(svc, "uno").Code)
}
