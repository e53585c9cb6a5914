package validate_slot

import (
	"context"
	"fmt"

	"github.com/Ramses120/Copper-Salon-sub000/internal/domain"
	"github.com/Ramses120/Copper-Salon-sub000/internal/scheduling"
)

// UseCase проверяет, свободен ли интервал у мастера.
// Использует тот же детектор конфликтов, что и создание бронирования.
type UseCase struct {
	occupancy   OccupancyService
	serviceRepo ServiceRepository
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(occupancy OccupancyService, serviceRepo ServiceRepository, logger Logger) *UseCase {
	return &UseCase{
		occupancy:   occupancy,
		serviceRepo: serviceRepo,
		logger:      logger,
	}
}

// Execute выполняет проверку
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ValidateSlot: staff=%d, date=%s, start=%s, exclude=%v",
		req.StaffID, req.Date.Format(domain.DateFormat), req.StartTime, req.ExcludeBookingID)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ValidateSlot: validation failed: %v", err)
		return nil, err
	}

	duration, err := uc.duration(ctx, req)
	if err != nil {
		return nil, err
	}

	proposed, err := scheduling.NewInterval(0, req.StartTime, duration)
	if err != nil {
		uc.logger.Warn("ValidateSlot: invalid interval: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	busy, err := uc.occupancy.BusyIntervals(ctx, req.StaffID, req.Date, req.ExcludeBookingID)
	if err != nil {
		uc.logger.Error("ValidateSlot: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	conflict := scheduling.DetectConflict(proposed, busy)
	if !conflict.Available() {
		uc.logger.Info("ValidateSlot: %s", conflict.Reason())
	}

	return &Response{
		Available:   conflict.Available(),
		Reason:      conflict.Reason(),
		Proposed:    proposed,
		Conflicting: conflict.Conflicting,
	}, nil
}

// duration длительность предлагаемого интервала в минутах
func (uc *UseCase) duration(ctx context.Context, req *Request) (int, error) {
	if req.EndTime != nil {
		start, _ := req.StartTime.Minutes()
		end, _ := req.EndTime.Minutes()
		return end - start, nil
	}

	services, err := uc.serviceRepo.GetByIDs(ctx, req.ServiceIDs)
	if err != nil {
		uc.logger.Error("ValidateSlot: failed to get services: %v", err)
		return 0, fmt.Errorf("%w: failed to get services: %v", ErrInternal, err)
	}

	ordered, err := resolveServices(req.ServiceIDs, services)
	if err != nil {
		uc.logger.Warn("ValidateSlot: %v", err)
		return 0, err
	}

	return scheduling.TotalDuration(ordered), nil
}
