package create_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Ramses120/Copper-Salon-sub000/internal/domain"
	bookingRepo "github.com/Ramses120/Copper-Salon-sub000/internal/infra/storage/booking"
	staffRepo "github.com/Ramses120/Copper-Salon-sub000/internal/infra/storage/staff"
	"github.com/Ramses120/Copper-Salon-sub000/internal/integrations/notifier"
	"github.com/Ramses120/Copper-Salon-sub000/internal/scheduling"
	"github.com/Ramses120/Copper-Salon-sub000/pkg/metrics"
	"github.com/Ramses120/Copper-Salon-sub000/pkg/txmanager"
)

// UseCase use case для создания бронирования
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

// Execute выполняет use case создания бронирования.
// Проверка пересечений и вставка выполняются в одной сериализуемой транзакции.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: staff=%d, date=%s, time=%s, services=%v",
		req.StaffID, req.Date.Format(domain.DateFormat), req.StartTime, req.ServiceIDs)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Дата и время не в прошлом
	if err := validateNotInPast(req.Date, req.StartTime, uc.timeProvider.Now()); err != nil {
		uc.logger.Warn("CreateBooking: %v", err)
		return nil, err
	}

	// 3. Услуги
	found, err := uc.serviceRepo.GetByIDs(ctx, req.ServiceIDs)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get services: %v", err)
		return nil, fmt.Errorf("%w: failed to get services: %v", ErrInternal, err)
	}
	services, err := resolveServices(req.ServiceIDs, found)
	if err != nil {
		uc.logger.Warn("CreateBooking: %v", err)
		return nil, err
	}
	duration := scheduling.TotalDuration(services)

	// 4. Мастер существует и активен
	staff, err := uc.staffRepo.GetByID(ctx, req.StaffID)
	if err != nil {
		if errors.Is(err, staffRepo.ErrStaffNotFound) {
			uc.logger.Warn("CreateBooking: staff id=%d not found", req.StaffID)
			return nil, ErrStaffNotFound
		}
		uc.logger.Error("CreateBooking: failed to get staff id=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
	}
	if !staff.Active {
		uc.logger.Warn("CreateBooking: staff id=%d is inactive", req.StaffID)
		return nil, ErrStaffNotFound
	}

	// 5. Рабочие часы
	day, err := uc.schedule.Resolve(ctx, req.StaffID, req.Date)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to resolve schedule: %v", err)
		return nil, fmt.Errorf("%w: failed to resolve schedule: %v", ErrInternal, err)
	}
	if err := validateWorkingHours(day, req.StartTime, duration); err != nil {
		uc.logger.Warn("CreateBooking: %v", err)
		return nil, err
	}

	proposed, err := scheduling.NewInterval(0, req.StartTime, duration)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	booking := newBooking(req, services, duration)

	// 6. Проверка пересечений и вставка в сериализуемой транзакции
	var created *domain.Booking
	conflictSource := metrics.ConflictSourceConstraint

	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		busy, err := uc.occupancy.BusyIntervals(txCtx, req.StaffID, req.Date, nil)
		if err != nil {
			return err
		}

		conflict := scheduling.DetectConflict(proposed, busy)
		if !conflict.Available() {
			conflictSource = metrics.ConflictSourceDetector
			return fmt.Errorf("%w: %s", ErrSlotNotAvailable, conflict.Reason())
		}

		created, err = uc.bookingRepo.Create(txCtx, booking)
		return err
	})

	if err != nil {
		if isConflict(err) {
			uc.metrics.IncBookingConflict(conflictSource)
			uc.logger.Warn("CreateBooking: slot not available (%s): %v", conflictSource, err)
			if errors.Is(err, ErrSlotNotAvailable) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %v", ErrSlotNotAvailable, err)
		}
		uc.logger.Error("CreateBooking: failed to create booking: %v", err)
		return nil, fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
	}

	uc.metrics.IncBookingCreated()
	uc.logger.Info("CreateBooking: successfully created booking id=%d", created.ID)

	// 7. После фиксации: кэш и событие (ошибки только логируются)
	if err := uc.cache.Invalidate(ctx, created.StaffID, created.BookingDate); err != nil {
		uc.logger.Warn("CreateBooking: failed to invalidate availability cache: %v", err)
	}
	event := notifier.NewBookingEvent(notifier.EventBookingCreated, created, uc.timeProvider.Now())
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Warn("CreateBooking: failed to publish event for booking id=%d: %v", created.ID, err)
	}

	return &Response{Booking: created}, nil
}

// newBooking собирает бронирование со снимком услуг на момент записи
func newBooking(req *Request, services []*domain.Service, duration int) *domain.Booking {
	booking := &domain.Booking{
		StaffID:         req.StaffID,
		BookingDate:     req.Date,
		StartTime:       req.StartTime,
		DurationMinutes: duration,
		Status:          domain.StatusPending,
		ClientName:      strings.TrimSpace(req.ClientName),
		ClientPhone:     strings.TrimSpace(req.ClientPhone),
		ClientEmail:     req.ClientEmail,
		Notes:           req.Notes,
		Services:        make([]domain.BookingService, 0, len(services)),
	}

	for i, s := range services {
		booking.TotalPrice += s.Price
		booking.Services = append(booking.Services, domain.BookingService{
			ServiceID:       s.ID,
			Position:        i,
			ServiceName:     s.Name,
			Price:           s.Price,
			DurationMinutes: s.DurationMinutes,
		})
	}

	return booking
}

// isConflict конфликт найден детектором, exclusion constraint или при сериализации
func isConflict(err error) bool {
	return errors.Is(err, ErrSlotNotAvailable) ||
		errors.Is(err, bookingRepo.ErrSlotConflict) ||
		errors.Is(err, txmanager.ErrSerialization)
}
