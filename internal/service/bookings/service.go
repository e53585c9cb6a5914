package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Ramses120/Copper-Salon-sub000/internal/domain"
	bookingRepo "github.com/Ramses120/Copper-Salon-sub000/internal/infra/storage/booking"
	"github.com/Ramses120/Copper-Salon-sub000/internal/integrations/notifier"
	"github.com/Ramses120/Copper-Salon-sub000/internal/service/bookings/models"
)

// Service сервис администрирования бронирований
type Service struct {
	bookingRepo BookingRepository
	txManager   TransactionManager
	cache       AvailabilityCache
	publisher   EventPublisher
	logger      Logger
	now         func() time.Time
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	txManager TransactionManager,
	cache AvailabilityCache,
	publisher EventPublisher,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		txManager:   txManager,
		cache:       cache,
		publisher:   publisher,
		logger:      logger,
		now:         time.Now,
	}
}

// GetByID получает бронирование по ID вместе с услугами
func (s *Service) GetByID(ctx context.Context, id int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d", id)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBooking(booking), nil
}

// List возвращает бронирования, отсортированные по дате и времени.
// Все фильтры опциональны.
func (s *Service) List(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	logMsg := "List: fetching bookings"
	if req.StaffID != nil {
		logMsg += fmt.Sprintf(", staff=%d", *req.StaffID)
	}
	if req.Fecha != nil {
		logMsg += fmt.Sprintf(", fecha=%s", *req.Fecha)
	}
	if req.Estado != nil {
		logMsg += fmt.Sprintf(", estado=%s", *req.Estado)
	}
	s.logger.Info(logMsg)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid filter: %v", err)
		if errors.Is(err, models.ErrInvalidStatus) {
			return nil, ErrInvalidStatus
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	bookings, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d bookings", len(bookings))
	return models.FromDomainBookingList(bookings), nil
}

// UpdateStatus меняет статус бронирования.
// pending -> confirmed|cancelled|completed, confirmed -> completed|cancelled;
// completed и cancelled конечные.
func (s *Service) UpdateStatus(ctx context.Context, id int64, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	s.logger.Info("UpdateStatus: updating booking id=%d to status=%s", id, req.Estado)

	newStatus, err := models.ToDomainBookingStatus(req.Estado)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for booking id=%d", req.Estado, id)
		return nil, ErrInvalidStatus
	}

	var updated *domain.Booking
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := s.bookingRepo.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: UpdateStatus - get booking: %v", ErrInternal, err)
		}

		if !booking.CanTransitionTo(newStatus) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, newStatus)
		}

		if err := s.bookingRepo.UpdateStatus(txCtx, id, newStatus); err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
		}

		booking.Status = newStatus
		updated = booking
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			s.logger.Warn("UpdateStatus: booking id=%d not found", id)
		case errors.Is(err, ErrInvalidTransition):
			s.logger.Warn("UpdateStatus: booking id=%d: %v", id, err)
		default:
			s.logger.Error("UpdateStatus: booking id=%d: %v", id, err)
			if !errors.Is(err, ErrInternal) {
				err = fmt.Errorf("%w: UpdateStatus - %v", ErrInternal, err)
			}
		}
		return nil, err
	}

	s.afterWrite(ctx, "UpdateStatus", notifier.EventBookingStatusChanged, updated)

	s.logger.Info("UpdateStatus: booking id=%d is now %s", id, newStatus)
	return models.FromDomainBooking(updated), nil
}

// Delete удаляет бронирование без возможности восстановления
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.logger.Info("Delete: deleting booking id=%d", id)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Delete: booking id=%d not found", id)
			return ErrBookingNotFound
		}
		s.logger.Error("Delete: repository error for booking id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	if err := s.bookingRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Delete: booking id=%d not found during deletion", id)
			return ErrBookingNotFound
		}
		s.logger.Error("Delete: repository error for booking id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.afterWrite(ctx, "Delete", notifier.EventBookingDeleted, booking)

	s.logger.Info("Delete: successfully deleted booking id=%d", id)
	return nil
}

// afterWrite сбрасывает кэш доступности и публикует событие.
// Ошибки только логируются: запись в БД уже зафиксирована.
func (s *Service) afterWrite(ctx context.Context, op, eventType string, b *domain.Booking) {
	if err := s.cache.Invalidate(ctx, b.StaffID, b.BookingDate); err != nil {
		s.logger.Warn("%s: failed to invalidate availability cache for staff=%d: %v", op, b.StaffID, err)
	}
	if err := s.publisher.Publish(ctx, notifier.NewBookingEvent(eventType, b, s.now())); err != nil {
		s.logger.Warn("%s: failed to publish %s for booking id=%d: %v", op, eventType, b.ID, err)
	}
}
