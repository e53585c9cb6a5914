package validate_slot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Ramses120/Copper-Salon-sub000/internal/scheduling"
	validateSlot "github.com/Ramses120/Copper-Salon-sub000/internal/usecase/validate_slot"
	"github.com/Ramses120/Copper-Salon-sub000/pkg/logger"
)

type mockUseCase struct{ mock.Mock }

func (m *mockUseCase) Execute(ctx context.Context, req *validateSlot.Request) (*validateSlot.Response, error) {
	args := m.Called(ctx, req)
	if r := args.Get(0); r != nil {
		return r.(*validateSlot.Response), args.Error(1)
	}
	return nil, args.Error(1)
}

func post(uc *mockUseCase, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	NewHandler(uc, logger.Nop()).Handle(rec,
		httptest.NewRequest(http.MethodPost, "/api/availability/validate", strings.NewReader(body)))
	return rec
}

func TestHandler_Available(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(r *validateSlot.Request) bool {
		return r.StaffID == 1 && r.EndTime != nil && *r.EndTime == "11:00" &&
			r.ExcludeBookingID != nil && *r.ExcludeBookingID == 5
	})).Return(&validateSlot.Response{Available: true}, nil)

	rec := post(uc, `{"staffId":1,"date":"2025-06-10","startTime":"10:00","endTime":"11:00","excludeBookingId":5}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"available":true}`, rec.Body.String())
}

func TestHandler_Conflict(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.Anything).Return(&validateSlot.Response{
		Available:   false,
		Reason:      "el horario se cruza con la reserva #4",
		Conflicting: &scheduling.Interval{BookingID: 4, Start: 630, End: 690},
	}, nil)

	rec := post(uc, `{"staffId":1,"date":"2025-06-10","startTime":"10:00","servicios":[1,2]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"available": false,
		"reason": "el horario se cruza con la reserva #4",
		"conflict": {"bookingId": 4, "startTime": "10:30", "endTime": "11:30"}
	}`, rec.Body.String())
}

func TestHandler_BadRequest(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.Anything).Return(nil, validateSlot.ErrInvalidInput)

	assert.Equal(t, http.StatusBadRequest, post(uc, `not json`).Code)
	assert.Equal(t, http.StatusBadRequest, post(uc, `{"staffId":1,"date":"2025/06/10","startTime":"10:00"}`).Code)
	assert.Equal(t, http.StatusBadRequest, post(uc, `{"staffId":1,"date":"2025-06-10","startTime":"10:00"}`).Code)
}

func TestHandler_ConflictPastMidnight(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.Anything).Return(&validateSlot.Response{
		Available:   false,
		Reason:      "el horario se cruza con la reserva #8",
		Conflicting: &scheduling.Interval{BookingID: 8, Start: 1410, End: 1470},
	}, nil)

	rec := post(uc, `{"staffId":1,"date":"2025-06-10","startTime":"23:30","endTime":"23:59"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"available": false,
		"reason": "el horario se cruza con la reserva #8",
		"conflict": {"bookingId": 8, "startTime": "23:30", "endTime": "24:30"}
	}`, rec.Body.String())
}
