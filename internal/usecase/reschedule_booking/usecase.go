package reschedule_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/Ramses120/Copper-Salon-sub000/internal/domain"
	bookingRepo "github.com/Ramses120/Copper-Salon-sub000/internal/infra/storage/booking"
	staffRepo "github.com/Ramses120/Copper-Salon-sub000/internal/infra/storage/staff"
	"github.com/Ramses120/Copper-Salon-sub000/internal/integrations/notifier"
	"github.com/Ramses120/Copper-Salon-sub000/internal/scheduling"
	"github.com/Ramses120/Copper-Salon-sub000/pkg/metrics"
	"github.com/Ramses120/Copper-Salon-sub000/pkg/txmanager"
)

// UseCase use case для переноса бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	serviceRepo  ServiceRepository
	staffRepo    StaffRepository
	schedule     ScheduleResolver
	occupancy    OccupancyService
	txManager    TransactionManager
	cache        AvailabilityCache
	publisher    EventPublisher
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	serviceRepo ServiceRepository,
	staffRepo StaffRepository,
	schedule ScheduleResolver,
	occupancy OccupancyService,
	txManager TransactionManager,
	cache AvailabilityCache,
	publisher EventPublisher,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		serviceRepo:  serviceRepo,
		staffRepo:    staffRepo,
		schedule:     schedule,
		occupancy:    occupancy,
		txManager:    txManager,
		cache:        cache,
		publisher:    publisher,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute переносит бронирование на новые мастера, дату, время и набор услуг.
// Само бронирование исключается из проверки пересечений.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleBooking: id=%d, staff=%d, date=%s, time=%s",
		req.BookingID, req.StaffID, req.Date.Format(domain.DateFormat), req.StartTime)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleBooking: validation failed: %v", err)
		return nil, err
	}
	if err := uc.validateNotInPast(req); err != nil {
		uc.logger.Warn("RescheduleBooking: %v", err)
		return nil, err
	}

	found, err := uc.serviceRepo.GetByIDs(ctx, req.ServiceIDs)
	if err != nil {
		uc.logger.Error("RescheduleBooking: failed to get services: %v", err)
		return nil, fmt.Errorf("%w: failed to get services: %v", ErrInternal, err)
	}
	services, err := resolveServices(req.ServiceIDs, found)
	if err != nil {
		uc.logger.Warn("RescheduleBooking: %v", err)
		return nil, err
	}
	duration := scheduling.TotalDuration(services)

	staff, err := uc.staffRepo.GetByID(ctx, req.StaffID)
	if err != nil {
		if errors.Is(err, staffRepo.ErrStaffNotFound) {
			return nil, ErrStaffNotFound
		}
		uc.logger.Error("RescheduleBooking: failed to get staff id=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
	}
	if !staff.Active {
		return nil, ErrStaffNotFound
	}

	day, err := uc.schedule.Resolve(ctx, req.StaffID, req.Date)
	if err != nil {
		uc.logger.Error("RescheduleBooking: failed to resolve schedule: %v", err)
		return nil, fmt.Errorf("%w: failed to resolve schedule: %v", ErrInternal, err)
	}
	if err := validateWorkingHours(day, req.StartTime, duration); err != nil {
		uc.logger.Warn("RescheduleBooking: %v", err)
		return nil, err
	}

	proposed, err := scheduling.NewInterval(req.BookingID, req.StartTime, duration)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var previous, updated *domain.Booking
	conflictSource := metrics.ConflictSourceConstraint

	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		current, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			return err
		}
		if !current.CanBeRescheduled() {
			return fmt.Errorf("%w: status=%s", ErrInvalidStatus, current.Status)
		}

		busy, err := uc.occupancy.BusyIntervals(txCtx, req.StaffID, req.Date, &req.BookingID)
		if err != nil {
			return err
		}
		conflict := scheduling.DetectConflict(proposed, busy)
		if !conflict.Available() {
			conflictSource = metrics.ConflictSourceDetector
			return fmt.Errorf("%w: %s", ErrSlotNotAvailable, conflict.Reason())
		}

		previous = current
		updated = moved(current, req, services, duration)
		return uc.bookingRepo.Reschedule(txCtx, updated)
	})

	if err != nil {
		switch {
		case errors.Is(err, bookingRepo.ErrBookingNotFound):
			uc.logger.Warn("RescheduleBooking: booking id=%d not found", req.BookingID)
			return nil, ErrBookingNotFound
		case errors.Is(err, ErrInvalidStatus):
			uc.logger.Warn("RescheduleBooking: %v", err)
			return nil, err
		case errors.Is(err, ErrSlotNotAvailable),
			errors.Is(err, bookingRepo.ErrSlotConflict),
			errors.Is(err, txmanager.ErrSerialization):
			uc.metrics.IncBookingConflict(conflictSource)
			uc.logger.Warn("RescheduleBooking: slot not available (%s): %v", conflictSource, err)
			if errors.Is(err, ErrSlotNotAvailable) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %v", ErrSlotNotAvailable, err)
		}
		uc.logger.Error("RescheduleBooking: failed to reschedule booking id=%d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to reschedule booking: %v", ErrInternal, err)
	}

	uc.logger.Info("RescheduleBooking: booking id=%d moved to staff=%d %s %s",
		updated.ID, updated.StaffID, updated.BookingDate.Format(domain.DateFormat), updated.StartTime)

	uc.invalidate(ctx, previous)
	if previous.StaffID != updated.StaffID || !previous.BookingDate.Equal(updated.BookingDate) {
		uc.invalidate(ctx, updated)
	}

	event := notifier.NewBookingEvent(notifier.EventBookingRescheduled, updated, uc.timeProvider.Now())
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Warn("RescheduleBooking: failed to publish event for booking id=%d: %v", updated.ID, err)
	}

	return &Response{Booking: updated}, nil
}

func (uc *UseCase) validateNotInPast(req *Request) error {
	now := uc.timeProvider.Now()
	day := req.Date.Format(domain.DateFormat)
	today := now.Format(domain.DateFormat)

	if day < today {
		return fmt.Errorf("%w: %s is in the past", ErrInvalidDate, day)
	}
	if day == today {
		start, _ := req.StartTime.Minutes()
		if start <= now.Hour()*60+now.Minute() {
			return fmt.Errorf("%w: %s %s has already started", ErrInvalidDate, day, req.StartTime)
		}
	}
	return nil
}

func (uc *UseCase) invalidate(ctx context.Context, b *domain.Booking) {
	if err := uc.cache.Invalidate(ctx, b.StaffID, b.BookingDate); err != nil {
		uc.logger.Warn("RescheduleBooking: failed to invalidate availability cache staff=%d: %v", b.StaffID, err)
	}
}

// moved копия бронирования с новым временем и снимком услуг
func moved(current *domain.Booking, req *Request, services []*domain.Service, duration int) *domain.Booking {
	updated := *current
	updated.StaffID = req.StaffID
	updated.BookingDate = req.Date
	updated.StartTime = req.StartTime
	updated.DurationMinutes = duration
	updated.TotalPrice = 0
	updated.Services = make([]domain.BookingService, 0, len(services))

	for i, s := range services {
		updated.TotalPrice += s.Price
		updated.Services = append(updated.Services, domain.BookingService{
			BookingID:       current.ID,
			ServiceID:       s.ID,
			Position:        i,
			ServiceName:     s.Name,
			Price:           s.Price,
			DurationMinutes: s.DurationMinutes,
		})
	}
	return &updated
}
