package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Ramses120/Copper-Salon-sub000/internal/domain"
	scheduleRepo "github.com/Ramses120/Copper-Salon-sub000/internal/infra/storage/schedule"
	staffRepo "github.com/Ramses120/Copper-Salon-sub000/internal/infra/storage/staff"
	"github.com/Ramses120/Copper-Salon-sub000/internal/scheduling"
	"github.com/Ramses120/Copper-Salon-sub000/internal/service/schedule/models"
	"github.com/Ramses120/Copper-Salon-sub000/pkg/types"
)

// Service сервис рабочих часов мастеров.
// Приоритет: staff weekday > salon weekday > salon default
type Service struct {
	scheduleRepo ScheduleRepository
	staffRepo    StaffRepository
	salon        domain.SalonSchedule
	cache        AvailabilityCache
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписаний
func NewService(
	scheduleRepo ScheduleRepository,
	staffRepo StaffRepository,
	salon domain.SalonSchedule,
	cache AvailabilityCache,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		staffRepo:    staffRepo,
		salon:        salon,
		cache:        cache,
		logger:       logger,
	}
}

// Resolve возвращает рабочие часы мастера на дату с учетом иерархии.
// Используется при расчете доступности и создании бронирований
func (s *Service) Resolve(ctx context.Context, staffID int64, date time.Time) (domain.DaySchedule, error) {
	weekday := date.Weekday()

	override, err := s.scheduleRepo.GetByStaffAndWeekday(ctx, staffID, weekday)
	if err == nil {
		return override.ToDaySchedule(), nil
	}
	if !errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
		s.logger.Error("Resolve: repository error for staff=%d, weekday=%d: %v", staffID, weekday, err)
		return domain.DaySchedule{}, fmt.Errorf("%w: Resolve - repository error: %v", ErrInternal, err)
	}

	return s.salon.ForWeekday(weekday), nil
}

// GetWeek возвращает рассчитанное расписание мастера на все дни недели
func (s *Service) GetWeek(ctx context.Context, staffID int64) (*models.WeekScheduleResponse, error) {
	s.logger.Info("GetWeek: fetching schedule for staff=%d", staffID)

	if err := s.checkStaff(ctx, "GetWeek", staffID); err != nil {
		return nil, err
	}

	overrides, err := s.scheduleRepo.ListByStaff(ctx, staffID)
	if err != nil {
		s.logger.Error("GetWeek: repository error for staff=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: GetWeek - repository error: %v", ErrInternal, err)
	}

	byWeekday := make(map[time.Weekday]*domain.StaffSchedule, len(overrides))
	for _, o := range overrides {
		byWeekday[o.Weekday] = o
	}

	resp := &models.WeekScheduleResponse{
		StaffID: staffID,
		Dias:    make([]models.DayScheduleResponse, 0, 7),
	}
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		day := s.salon.ForWeekday(wd)
		if o, ok := byWeekday[wd]; ok {
			day = o.ToDaySchedule()
		}

		slots, err := scheduling.GenerateDaySlots(day)
		if err != nil {
			s.logger.Error("GetWeek: invalid window for staff=%d, weekday=%d: %v", staffID, wd, err)
			return nil, fmt.Errorf("%w: GetWeek - invalid window: %v", ErrInternal, err)
		}
		resp.Dias = append(resp.Dias, models.FromDaySchedule(day, len(slots)))
	}

	return resp, nil
}

// Upsert создает или заменяет переопределение рабочих часов мастера
func (s *Service) Upsert(ctx context.Context, req *models.UpsertScheduleRequest) (*models.DayScheduleResponse, error) {
	s.logger.Info("Upsert: staff=%d, weekday=%d, closed=%t", req.StaffID, req.Weekday, req.Closed)

	schedule, err := toDomainSchedule(req)
	if err != nil {
		s.logger.Warn("Upsert: validation failed: %v", err)
		return nil, err
	}

	if err := s.checkStaff(ctx, "Upsert", req.StaffID); err != nil {
		return nil, err
	}

	saved, err := s.scheduleRepo.Upsert(ctx, schedule)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrStaffNotFound) {
			s.logger.Warn("Upsert: staff id=%d not found", req.StaffID)
			return nil, ErrStaffNotFound
		}
		s.logger.Error("Upsert: repository error for staff=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: Upsert - repository error: %v", ErrInternal, err)
	}

	s.invalidate(ctx, "Upsert", req.StaffID)

	day := saved.ToDaySchedule()
	slots, err := scheduling.GenerateDaySlots(day)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - generate slots: %v", ErrInternal, err)
	}

	s.logger.Info("Upsert: saved schedule id=%d for staff=%d", saved.ID, saved.StaffID)
	resp := models.FromDaySchedule(day, len(slots))
	return &resp, nil
}

// Delete удаляет переопределение; день снова берется из расписания салона
func (s *Service) Delete(ctx context.Context, staffID int64, weekday int) error {
	s.logger.Info("Delete: staff=%d, weekday=%d", staffID, weekday)

	if weekday < int(time.Sunday) || weekday > int(time.Saturday) {
		return fmt.Errorf("%w: weekday must be between 0 and 6", ErrInvalidInput)
	}

	if err := s.scheduleRepo.Delete(ctx, staffID, time.Weekday(weekday)); err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			s.logger.Warn("Delete: no schedule for staff=%d, weekday=%d", staffID, weekday)
			return ErrScheduleNotFound
		}
		s.logger.Error("Delete: repository error for staff=%d: %v", staffID, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.invalidate(ctx, "Delete", staffID)
	return nil
}

// Вспомогательные методы

func (s *Service) checkStaff(ctx context.Context, op string, staffID int64) error {
	if _, err := s.staffRepo.GetByID(ctx, staffID); err != nil {
		if errors.Is(err, staffRepo.ErrStaffNotFound) {
			s.logger.Warn("%s: staff id=%d not found", op, staffID)
			return ErrStaffNotFound
		}
		s.logger.Error("%s: failed to get staff id=%d: %v", op, staffID, err)
		return fmt.Errorf("%w: %s - failed to get staff: %v", ErrInternal, op, err)
	}
	return nil
}

// invalidate сбрасывает кэш доступности мастера; ошибка кэша не прерывает операцию
func (s *Service) invalidate(ctx context.Context, op string, staffID int64) {
	if err := s.cache.InvalidateStaff(ctx, staffID); err != nil {
		s.logger.Warn("%s: failed to invalidate availability cache for staff=%d: %v", op, staffID, err)
	}
}

func toDomainSchedule(req *models.UpsertScheduleRequest) (*domain.StaffSchedule, error) {
	if req.StaffID <= 0 {
		return nil, fmt.Errorf("%w: staffId must be positive", ErrInvalidInput)
	}
	if req.Weekday < int(time.Sunday) || req.Weekday > int(time.Saturday) {
		return nil, fmt.Errorf("%w: weekday must be between 0 and 6", ErrInvalidInput)
	}

	schedule := &domain.StaffSchedule{
		StaffID: req.StaffID,
		Weekday: time.Weekday(req.Weekday),
		IsOpen:  !req.Closed,
	}
	if req.Closed {
		return schedule, nil
	}

	if req.Open == nil || req.LastStart == nil {
		return nil, fmt.Errorf("%w: apertura and ultimaCita are required for an open day", ErrInvalidInput)
	}

	open, err := types.NewTimeStringFromString(*req.Open)
	if err != nil {
		return nil, fmt.Errorf("%w: apertura: %v", ErrInvalidInput, err)
	}
	lastStart, err := types.NewTimeStringFromString(*req.LastStart)
	if err != nil {
		return nil, fmt.Errorf("%w: ultimaCita: %v", ErrInvalidInput, err)
	}

	slotMinutes := domain.DefaultSlotMinutes
	if req.SlotMinutes != nil {
		slotMinutes = *req.SlotMinutes
	}

	schedule.Window = domain.WorkingHoursWindow{
		Open:        open,
		LastStart:   lastStart,
		SlotMinutes: slotMinutes,
	}
	if err := schedule.Window.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return schedule, nil
}
