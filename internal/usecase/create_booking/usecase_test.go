package create_booking

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Ramses120/Copper-Salon-sub000/internal/domain"
	bookingRepo "github.com/Ramses120/Copper-Salon-sub000/internal/infra/storage/booking"
	staffRepo "github.com/Ramses120/Copper-Salon-sub000/internal/infra/storage/staff"
	"github.com/Ramses120/Copper-Salon-sub000/internal/integrations/notifier"
	"github.com/Ramses120/Copper-Salon-sub000/internal/scheduling"
	"github.com/Ramses120/Copper-Salon-sub000/pkg/logger"
	"github.com/Ramses120/Copper-Salon-sub000/pkg/metrics"
	"github.com/Ramses120/Copper-Salon-sub000/pkg/ptr"
	"github.com/Ramses120/Copper-Salon-sub000/pkg/txmanager"
	"github.com/Ramses120/Copper-Salon-sub000/pkg/types"
)

type mockBookingRepo struct{ mock.Mock }

func (m *mockBookingRepo) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	args := m.Called(ctx, b)
	if created := args.Get(0); created != nil {
		return created.(*domain.Booking), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockServiceRepo struct{ mock.Mock }

func (m *mockServiceRepo) GetByIDs(ctx context.Context, ids []int64) ([]*domain.Service, error) {
	args := m.Called(ctx, ids)
	if s := args.Get(0); s != nil {
		return s.([]*domain.Service), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockStaffRepo struct{ mock.Mock }

func (m *mockStaffRepo) GetByID(ctx context.Context, id int64) (*domain.StaffMember, error) {
	args := m.Called(ctx, id)
	if s := args.Get(0); s != nil {
		return s.(*domain.StaffMember), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockSchedule struct{ mock.Mock }

func (m *mockSchedule) Resolve(ctx context.Context, staffID int64, date time.Time) (domain.DaySchedule, error) {
	args := m.Called(ctx, staffID, date)
	return args.Get(0).(domain.DaySchedule), args.Error(1)
}

type mockOccupancy struct{ mock.Mock }

func (m *mockOccupancy) BusyIntervals(ctx context.Context, staffID int64, date time.Time, exclude *int64) ([]scheduling.Interval, error) {
	args := m.Called(ctx, staffID, date, exclude)
	if i := args.Get(0); i != nil {
		return i.([]scheduling.Interval), args.Error(1)
	}
	return nil, args.Error(1)
}

// fakeTx выполняет функцию и, если задано, подменяет результат фиксации
type fakeTx struct {
	commitErr error
}

func (f *fakeTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		return err
	}
	return f.commitErr
}

type mockCache struct{ mock.Mock }

func (m *mockCache) Invalidate(ctx context.Context, staffID int64, date time.Time) error {
	return m.Called(ctx, staffID, date).Error(0)
}

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) Publish(ctx context.Context, event notifier.BookingEvent) error {
	return m.Called(ctx, event).Error(0)
}

type mockMetrics struct{ mock.Mock }

func (m *mockMetrics) IncBookingCreated()               { m.Called() }
func (m *mockMetrics) IncBookingConflict(source string) { m.Called(source) }

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

var (
	bookingDate = time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	now         = time.Date(2025, 6, 9, 12, 0, 0, 0, time.UTC)
)

type fixture struct {
	uc        *UseCase
	bookings  *mockBookingRepo
	services  *mockServiceRepo
	staff     *mockStaffRepo
	schedule  *mockSchedule
	occupancy *mockOccupancy
	tx        *fakeTx
	cache     *mockCache
	publisher *mockPublisher
	metrics   *mockMetrics
}

func newFixture() *fixture {
	f := &fixture{
		bookings:  &mockBookingRepo{},
		services:  &mockServiceRepo{},
		staff:     &mockStaffRepo{},
		schedule:  &mockSchedule{},
		occupancy: &mockOccupancy{},
		tx:        &fakeTx{},
		cache:     &mockCache{},
		publisher: &mockPublisher{},
		metrics:   &mockMetrics{},
	}
	f.uc = NewUseCase(f.bookings, f.services, f.staff, f.schedule, f.occupancy, f.tx,
		f.cache, f.publisher, f.metrics, logger.Nop())
	f.uc.timeProvider = fixedTime{now: now}
	return f
}

// catalog: 1 = Corte 30 мин, 2 = Tinte 60 мин
func (f *fixture) withCatalog(ctx context.Context, ids []int64) {
	f.services.On("GetByIDs", ctx, ids).Return([]*domain.Service{
		{ID: 2, Name: "Tinte", Price: 25, DurationMinutes: 60, Active: true},
		{ID: 1, Name: "Corte", Price: 20, DurationMinutes: 30, Active: true},
	}, nil)
}

func (f *fixture) withOpenDay(ctx context.Context) {
	f.staff.On("GetByID", ctx, int64(1)).Return(&domain.StaffMember{ID: 1, Name: "Lucía", Active: true}, nil)
	f.schedule.On("Resolve", ctx, int64(1), bookingDate).Return(domain.DaySchedule{
		Weekday: time.Tuesday,
		IsOpen:  true,
		Window:  domain.DefaultWindow(),
		Level:   domain.ScheduleLevelSalonDefault,
	}, nil)
}

func validRequest() *Request {
	return &Request{
		ServiceIDs:  []int64{1, 2},
		StaffID:     1,
		Date:        bookingDate,
		StartTime:   "10:00",
		ClientName:  "Ana García",
		ClientPhone: "+34600000000",
		ClientEmail: ptr.Ptr("ana@example.com"),
	}
}

func TestUseCase_Execute_Success(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.withCatalog(ctx, []int64{1, 2})
	f.withOpenDay(ctx)

	f.occupancy.On("BusyIntervals", ctx, int64(1), bookingDate, (*int64)(nil)).
		Return([]scheduling.Interval{{BookingID: 4, Start: 540, End: 600}}, nil)
	f.bookings.On("Create", ctx, mock.MatchedBy(func(b *domain.Booking) bool {
		return b.Status == domain.StatusPending &&
			b.DurationMinutes == 90 &&
			b.TotalPrice == 45 &&
			len(b.Services) == 2 &&
			b.Services[0].ServiceID == 1 && b.Services[0].Position == 0 &&
			b.Services[1].ServiceName == "Tinte" && b.Services[1].DurationMinutes == 60
	})).Return(func() *domain.Booking {
		b := newBooking(validRequest(), []*domain.Service{
			{ID: 1, Name: "Corte", Price: 20, DurationMinutes: 30},
			{ID: 2, Name: "Tinte", Price: 25, DurationMinutes: 60},
		}, 90)
		b.ID = 10
		return b
	}(), nil)
	f.metrics.On("IncBookingCreated").Return()
	f.cache.On("Invalidate", ctx, int64(1), bookingDate).Return(nil)
	f.publisher.On("Publish", ctx, mock.MatchedBy(func(e notifier.BookingEvent) bool {
		return e.Type == notifier.EventBookingCreated && e.BookingID == 10 && e.Hora == "10:00"
	})).Return(nil)

	resp, err := f.uc.Execute(ctx, validRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(10), resp.Booking.ID)
	assert.Equal(t, domain.StatusPending, resp.Booking.Status)

	f.cache.AssertExpectations(t)
	f.publisher.AssertExpectations(t)
	f.metrics.AssertExpectations(t)
}

func TestUseCase_Execute_ConflictDetected(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.withCatalog(ctx, []int64{1, 2})
	f.withOpenDay(ctx)

	// существующая запись 10:30-11:00 попадает в 10:00-11:30
	f.occupancy.On("BusyIntervals", ctx, int64(1), bookingDate, (*int64)(nil)).
		Return([]scheduling.Interval{{BookingID: 4, Start: 630, End: 660}}, nil)
	f.metrics.On("IncBookingConflict", metrics.ConflictSourceDetector).Return()

	_, err := f.uc.Execute(ctx, validRequest())
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Contains(t, err.Error(), "#4")
	f.bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.cache.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything, mock.Anything)
}

func TestUseCase_Execute_ConstraintConflict(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		createErr error
		commitErr error
	}{
		{name: "exclusion constraint", createErr: fmt.Errorf("%w: Create", bookingRepo.ErrSlotConflict)},
		{name: "serialization failure on commit", commitErr: fmt.Errorf("%w: 40001", txmanager.ErrSerialization)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.tx.commitErr = tt.commitErr
			f.withCatalog(ctx, []int64{1, 2})
			f.withOpenDay(ctx)
			f.occupancy.On("BusyIntervals", ctx, int64(1), bookingDate, (*int64)(nil)).Return([]scheduling.Interval{}, nil)
			if tt.createErr != nil {
				f.bookings.On("Create", ctx, mock.Anything).Return(nil, tt.createErr)
			} else {
				f.bookings.On("Create", ctx, mock.Anything).Return(&domain.Booking{ID: 1}, nil)
			}
			f.metrics.On("IncBookingConflict", metrics.ConflictSourceConstraint).Return()

			_, err := f.uc.Execute(ctx, validRequest())
			assert.ErrorIs(t, err, ErrSlotNotAvailable)
			f.metrics.AssertExpectations(t)
		})
	}
}

func TestUseCase_Execute_AdjacentBookingsAllowed(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.withCatalog(ctx, []int64{1})
	f.withOpenDay(ctx)

	req := validRequest()
	req.ServiceIDs = []int64{1}

	// 09:30-10:00 и 10:30-11:00 вокруг 10:00-10:30
	f.occupancy.On("BusyIntervals", ctx, int64(1), bookingDate, (*int64)(nil)).Return([]scheduling.Interval{
		{BookingID: 2, Start: 570, End: 600},
		{BookingID: 3, Start: 630, End: 660},
	}, nil)
	f.bookings.On("Create", ctx, mock.Anything).Return(&domain.Booking{ID: 5, StaffID: 1, BookingDate: bookingDate, StartTime: "10:00"}, nil)
	f.metrics.On("IncBookingCreated").Return()
	f.cache.On("Invalidate", ctx, int64(1), bookingDate).Return(nil)
	f.publisher.On("Publish", ctx, mock.Anything).Return(errors.New("broker down"))

	resp, err := f.uc.Execute(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, int64(5), resp.Booking.ID)
}

func TestUseCase_Execute_Rejections(t *testing.T) {
	ctx := context.Background()

	t.Run("inactive service", func(t *testing.T) {
		f := newFixture()
		f.services.On("GetByIDs", ctx, []int64{1, 2}).Return([]*domain.Service{
			{ID: 1, DurationMinutes: 30, Active: true},
			{ID: 2, DurationMinutes: 60, Active: false},
		}, nil)

		_, err := f.uc.Execute(ctx, validRequest())
		assert.ErrorIs(t, err, ErrServiceNotFound)
	})

	t.Run("unknown staff", func(t *testing.T) {
		f := newFixture()
		f.withCatalog(ctx, []int64{1, 2})
		f.staff.On("GetByID", ctx, int64(1)).Return(nil, staffRepo.ErrStaffNotFound)

		_, err := f.uc.Execute(ctx, validRequest())
		assert.ErrorIs(t, err, ErrStaffNotFound)
	})

	t.Run("inactive staff", func(t *testing.T) {
		f := newFixture()
		f.withCatalog(ctx, []int64{1, 2})
		f.staff.On("GetByID", ctx, int64(1)).Return(&domain.StaffMember{ID: 1, Active: false}, nil)

		_, err := f.uc.Execute(ctx, validRequest())
		assert.ErrorIs(t, err, ErrStaffNotFound)
	})

	t.Run("closed day", func(t *testing.T) {
		f := newFixture()
		f.withCatalog(ctx, []int64{1, 2})
		f.staff.On("GetByID", ctx, int64(1)).Return(&domain.StaffMember{ID: 1, Active: true}, nil)
		f.schedule.On("Resolve", ctx, int64(1), bookingDate).Return(domain.DaySchedule{IsOpen: false}, nil)

		_, err := f.uc.Execute(ctx, validRequest())
		assert.ErrorIs(t, err, ErrDayClosed)
	})

	t.Run("off grid time", func(t *testing.T) {
		f := newFixture()
		f.withCatalog(ctx, []int64{1, 2})
		f.withOpenDay(ctx)

		req := validRequest()
		req.StartTime = "10:15"
		_, err := f.uc.Execute(ctx, req)
		assert.ErrorIs(t, err, ErrInvalidTimeSlot)
	})

	t.Run("ends after closing", func(t *testing.T) {
		f := newFixture()
		f.withCatalog(ctx, []int64{1, 2})
		f.withOpenDay(ctx)

		// 17:30 + 90 минут > 18:00
		req := validRequest()
		req.StartTime = "17:30"
		_, err := f.uc.Execute(ctx, req)
		assert.ErrorIs(t, err, ErrOutsideWorkingHours)
	})

	t.Run("past date", func(t *testing.T) {
		f := newFixture()
		req := validRequest()
		req.Date = now.AddDate(0, 0, -1)
		_, err := f.uc.Execute(ctx, req)
		assert.ErrorIs(t, err, ErrInvalidDate)
	})

	t.Run("today already started", func(t *testing.T) {
		f := newFixture()
		req := validRequest()
		req.Date = time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)
		req.StartTime = "11:30"
		_, err := f.uc.Execute(ctx, req)
		assert.ErrorIs(t, err, ErrInvalidDate)
	})
}

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *Request)
	}{
		{name: "no services", mutate: func(r *Request) { r.ServiceIDs = nil }},
		{name: "duplicate service", mutate: func(r *Request) { r.ServiceIDs = []int64{1, 1} }},
		{name: "too many services", mutate: func(r *Request) {
			r.ServiceIDs = []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}
		}},
		{name: "no staff", mutate: func(r *Request) { r.StaffID = 0 }},
		{name: "no date", mutate: func(r *Request) { r.Date = time.Time{} }},
		{name: "bad time", mutate: func(r *Request) { r.StartTime = types.TimeString("25:00") }},
		{name: "no client name", mutate: func(r *Request) { r.ClientName = "  " }},
		{name: "no phone", mutate: func(r *Request) { r.ClientPhone = "" }},
		{name: "bad email", mutate: func(r *Request) { r.ClientEmail = ptr.Ptr("not-an-email") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)
			assert.ErrorIs(t, validateRequest(req), ErrInvalidInput)
		})
	}

	assert.NoError(t, validateRequest(validRequest()))
}
