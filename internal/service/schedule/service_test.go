package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Ramses120/Copper-Salon-sub000/internal/domain"
	scheduleRepo "github.com/Ramses120/Copper-Salon-sub000/internal/infra/storage/schedule"
	staffRepo "github.com/Ramses120/Copper-Salon-sub000/internal/infra/storage/staff"
	"github.com/Ramses120/Copper-Salon-sub000/internal/service/schedule/models"
	"github.com/Ramses120/Copper-Salon-sub000/pkg/logger"
	"github.com/Ramses120/Copper-Salon-sub000/pkg/ptr"
)

type mockScheduleRepo struct{ mock.Mock }

func (m *mockScheduleRepo) GetByStaffAndWeekday(ctx context.Context, staffID int64, weekday time.Weekday) (*domain.StaffSchedule, error) {
	args := m.Called(ctx, staffID, weekday)
	if s := args.Get(0); s != nil {
		return s.(*domain.StaffSchedule), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockScheduleRepo) ListByStaff(ctx context.Context, staffID int64) ([]*domain.StaffSchedule, error) {
	args := m.Called(ctx, staffID)
	return args.Get(0).([]*domain.StaffSchedule), args.Error(1)
}

func (m *mockScheduleRepo) Upsert(ctx context.Context, s *domain.StaffSchedule) (*domain.StaffSchedule, error) {
	args := m.Called(ctx, s)
	if saved := args.Get(0); saved != nil {
		return saved.(*domain.StaffSchedule), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockScheduleRepo) Delete(ctx context.Context, staffID int64, weekday time.Weekday) error {
	return m.Called(ctx, staffID, weekday).Error(0)
}

type mockStaffRepo struct{ mock.Mock }

func (m *mockStaffRepo) GetByID(ctx context.Context, id int64) (*domain.StaffMember, error) {
	args := m.Called(ctx, id)
	if s := args.Get(0); s != nil {
		return s.(*domain.StaffMember), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockCache struct{ mock.Mock }

func (m *mockCache) InvalidateStaff(ctx context.Context, staffID int64) error {
	return m.Called(ctx, staffID).Error(0)
}

var (
	// 2025-06-10 - вторник
	tuesday = time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	sunday  = time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)
)

func salonSchedule() domain.SalonSchedule {
	return domain.SalonSchedule{
		Default: domain.DefaultWindow(),
		Days: map[time.Weekday]domain.SalonDay{
			time.Sunday: {IsOpen: false},
		},
	}
}

func newService() (*Service, *mockScheduleRepo, *mockStaffRepo, *mockCache) {
	repo := &mockScheduleRepo{}
	staff := &mockStaffRepo{}
	cache := &mockCache{}
	return NewService(repo, staff, salonSchedule(), cache, logger.Nop()), repo, staff, cache
}

func TestService_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("staff override wins", func(t *testing.T) {
		svc, repo, _, _ := newService()
		override := &domain.StaffSchedule{
			StaffID: 1,
			Weekday: time.Tuesday,
			IsOpen:  true,
			Window:  domain.WorkingHoursWindow{Open: "10:00", LastStart: "14:00", SlotMinutes: 60},
		}
		repo.On("GetByStaffAndWeekday", ctx, int64(1), time.Tuesday).Return(override, nil)

		day, err := svc.Resolve(ctx, 1, tuesday)
		require.NoError(t, err)
		assert.Equal(t, domain.ScheduleLevelStaff, day.Level)
		assert.Equal(t, 60, day.Window.SlotMinutes)
	})

	t.Run("salon weekday entry", func(t *testing.T) {
		svc, repo, _, _ := newService()
		repo.On("GetByStaffAndWeekday", ctx, int64(1), time.Sunday).Return(nil, scheduleRepo.ErrScheduleNotFound)

		day, err := svc.Resolve(ctx, 1, sunday)
		require.NoError(t, err)
		assert.Equal(t, domain.ScheduleLevelSalonDay, day.Level)
		assert.False(t, day.IsOpen)
	})

	t.Run("salon default", func(t *testing.T) {
		svc, repo, _, _ := newService()
		repo.On("GetByStaffAndWeekday", ctx, int64(1), time.Tuesday).Return(nil, scheduleRepo.ErrScheduleNotFound)

		day, err := svc.Resolve(ctx, 1, tuesday)
		require.NoError(t, err)
		assert.Equal(t, domain.ScheduleLevelSalonDefault, day.Level)
		assert.Equal(t, domain.DefaultWindow(), day.Window)
	})

	t.Run("repository error", func(t *testing.T) {
		svc, repo, _, _ := newService()
		repo.On("GetByStaffAndWeekday", ctx, int64(1), time.Tuesday).Return(nil, errors.New("db down"))

		_, err := svc.Resolve(ctx, 1, tuesday)
		assert.ErrorIs(t, err, ErrInternal)
	})
}

func TestService_GetWeek(t *testing.T) {
	ctx := context.Background()
	svc, repo, staff, _ := newService()

	staff.On("GetByID", ctx, int64(3)).Return(&domain.StaffMember{ID: 3, Active: true}, nil)
	repo.On("ListByStaff", ctx, int64(3)).Return([]*domain.StaffSchedule{
		{StaffID: 3, Weekday: time.Monday, IsOpen: false},
	}, nil)

	week, err := svc.GetWeek(ctx, 3)
	require.NoError(t, err)
	require.Len(t, week.Dias, 7)

	assert.Equal(t, "domingo", week.Dias[0].Dia)
	assert.False(t, week.Dias[0].Abierto)
	assert.Equal(t, string(domain.ScheduleLevelSalonDay), week.Dias[0].Nivel)

	assert.False(t, week.Dias[1].Abierto)
	assert.Equal(t, string(domain.ScheduleLevelStaff), week.Dias[1].Nivel)

	assert.True(t, week.Dias[2].Abierto)
	assert.Equal(t, 18, week.Dias[2].TotalSlots)
}

func TestService_GetWeek_StaffNotFound(t *testing.T) {
	ctx := context.Background()
	svc, _, staff, _ := newService()
	staff.On("GetByID", ctx, int64(9)).Return(nil, staffRepo.ErrStaffNotFound)

	_, err := svc.GetWeek(ctx, 9)
	assert.ErrorIs(t, err, ErrStaffNotFound)
}

func TestService_Upsert(t *testing.T) {
	ctx := context.Background()

	t.Run("open day", func(t *testing.T) {
		svc, repo, staff, cache := newService()
		staff.On("GetByID", ctx, int64(1)).Return(&domain.StaffMember{ID: 1}, nil)
		repo.On("Upsert", ctx, mock.MatchedBy(func(s *domain.StaffSchedule) bool {
			return s.StaffID == 1 && s.Weekday == time.Friday && s.IsOpen && s.Window.SlotMinutes == 45
		})).Return(&domain.StaffSchedule{
			ID:      11,
			StaffID: 1,
			Weekday: time.Friday,
			IsOpen:  true,
			Window:  domain.WorkingHoursWindow{Open: "10:00", LastStart: "16:00", SlotMinutes: 45},
		}, nil)
		cache.On("InvalidateStaff", ctx, int64(1)).Return(nil)

		resp, err := svc.Upsert(ctx, &models.UpsertScheduleRequest{
			StaffID:     1,
			Weekday:     int(time.Friday),
			Open:        ptr.Ptr("10:00"),
			LastStart:   ptr.Ptr("16:00"),
			SlotMinutes: ptr.Ptr(45),
		})
		require.NoError(t, err)
		assert.Equal(t, "10:00", resp.Apertura)
		assert.Equal(t, 9, resp.TotalSlots)
		cache.AssertExpectations(t)
	})

	t.Run("closed day", func(t *testing.T) {
		svc, repo, staff, cache := newService()
		staff.On("GetByID", ctx, int64(1)).Return(&domain.StaffMember{ID: 1}, nil)
		repo.On("Upsert", ctx, mock.Anything).Return(&domain.StaffSchedule{StaffID: 1, Weekday: time.Monday}, nil)
		cache.On("InvalidateStaff", ctx, int64(1)).Return(errors.New("redis down"))

		resp, err := svc.Upsert(ctx, &models.UpsertScheduleRequest{StaffID: 1, Weekday: 1, Closed: true})
		require.NoError(t, err)
		assert.False(t, resp.Abierto)
		assert.Equal(t, 0, resp.TotalSlots)
	})

	t.Run("invalid window", func(t *testing.T) {
		svc, _, _, _ := newService()
		_, err := svc.Upsert(ctx, &models.UpsertScheduleRequest{
			StaffID:   1,
			Weekday:   2,
			Open:      ptr.Ptr("18:00"),
			LastStart: ptr.Ptr("09:00"),
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("off grid last start", func(t *testing.T) {
		svc, _, _, _ := newService()
		_, err := svc.Upsert(ctx, &models.UpsertScheduleRequest{
			StaffID:   1,
			Weekday:   2,
			Open:      ptr.Ptr("09:00"),
			LastStart: ptr.Ptr("17:20"),
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("bad weekday", func(t *testing.T) {
		svc, _, _, _ := newService()
		_, err := svc.Upsert(ctx, &models.UpsertScheduleRequest{StaffID: 1, Weekday: 7, Closed: true})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		svc, repo, _, cache := newService()
		repo.On("Delete", ctx, int64(1), time.Wednesday).Return(nil)
		cache.On("InvalidateStaff", ctx, int64(1)).Return(nil)

		require.NoError(t, svc.Delete(ctx, 1, 3))
		cache.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		svc, repo, _, _ := newService()
		repo.On("Delete", ctx, int64(1), time.Wednesday).Return(scheduleRepo.ErrScheduleNotFound)

		assert.ErrorIs(t, svc.Delete(ctx, 1, 3), ErrScheduleNotFound)
	})
}
