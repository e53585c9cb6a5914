package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Ramses120/Copper-Salon-sub000/internal/domain"
	servicesRepo "github.com/Ramses120/Copper-Salon-sub000/internal/infra/storage/services"
	"github.com/Ramses120/Copper-Salon-sub000/internal/service/catalog/models"
)

// Service сервис каталога: мастера и услуги салона
type Service struct {
	staffRepo   StaffRepository
	serviceRepo ServiceRepository
	cache       AvailabilityCache
	policy      domain.DurationPolicy
	logger      Logger
}

// NewService создает новый экземпляр сервиса каталога
func NewService(
	staffRepo StaffRepository,
	serviceRepo ServiceRepository,
	cache AvailabilityCache,
	policy domain.DurationPolicy,
	logger Logger,
) *Service {
	return &Service{
		staffRepo:   staffRepo,
		serviceRepo: serviceRepo,
		cache:       cache,
		policy:      policy,
		logger:      logger,
	}
}

// ListStaff список мастеров
func (s *Service) ListStaff(ctx context.Context, includeInactive bool) (*models.StaffListResponse, error) {
	members, err := s.staffRepo.List(ctx, includeInactive)
	if err != nil {
		s.logger.Error("ListStaff: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListStaff - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainStaffList(members), nil
}

// CreateStaff добавляет мастера
func (s *Service) CreateStaff(ctx context.Context, req *models.CreateStaffRequest) (*models.StaffResponse, error) {
	name := strings.TrimSpace(req.Nombre)
	if name == "" || utf8.RuneCountInString(name) > domain.MaxStaffNameLength {
		return nil, fmt.Errorf("%w: nombre is required and must be at most %d characters",
			ErrInvalidInput, domain.MaxStaffNameLength)
	}

	member := &domain.StaffMember{Name: name, Active: true}
	if req.Activo != nil {
		member.Active = *req.Activo
	}

	created, err := s.staffRepo.Create(ctx, member)
	if err != nil {
		s.logger.Error("CreateStaff: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateStaff - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateStaff: created staff id=%d", created.ID)
	resp := models.FromDomainStaff(created)
	return &resp, nil
}

// ListServices список услуг
func (s *Service) ListServices(ctx context.Context, includeInactive bool) (*models.ServiceListResponse, error) {
	services, err := s.serviceRepo.List(ctx, includeInactive)
	if err != nil {
		s.logger.Error("ListServices: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListServices - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainServiceList(services), nil
}

// CreateService добавляет услугу в каталог
func (s *Service) CreateService(ctx context.Context, req *models.CreateServiceRequest) (*models.ServiceResponse, error) {
	service := &domain.Service{
		Name:            strings.TrimSpace(req.Nombre),
		Price:           req.Precio,
		DurationMinutes: req.Duracion,
		Active:          true,
	}
	if req.Activo != nil {
		service.Active = *req.Activo
	}

	if err := validateService(service); err != nil {
		s.logger.Warn("CreateService: validation failed: %v", err)
		return nil, err
	}

	created, err := s.serviceRepo.Create(ctx, service)
	if err != nil {
		s.logger.Error("CreateService: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateService - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateService: created service id=%d", created.ID)
	resp := models.FromDomainService(created)
	return &resp, nil
}

// UpdateService частично обновляет услугу.
// При политике live изменение длительности сдвигает занятость уже сделанных
// бронирований, поэтому кэш доступности сбрасывается целиком.
func (s *Service) UpdateService(ctx context.Context, id int64, req *models.UpdateServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("UpdateService: updating service id=%d", id)

	service, err := s.serviceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, servicesRepo.ErrServiceNotFound) {
			s.logger.Warn("UpdateService: service id=%d not found", id)
			return nil, ErrServiceNotFound
		}
		s.logger.Error("UpdateService: repository error for service id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateService - repository error: %v", ErrInternal, err)
	}

	previousDuration := service.DurationMinutes
	req.ApplyTo(service)
	service.Name = strings.TrimSpace(service.Name)

	if err := validateService(service); err != nil {
		s.logger.Warn("UpdateService: validation failed for service id=%d: %v", id, err)
		return nil, err
	}

	updated, err := s.serviceRepo.Update(ctx, service)
	if err != nil {
		if errors.Is(err, servicesRepo.ErrServiceNotFound) {
			return nil, ErrServiceNotFound
		}
		s.logger.Error("UpdateService: repository error for service id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateService - repository error: %v", ErrInternal, err)
	}

	if s.policy == domain.DurationLive && previousDuration != updated.DurationMinutes {
		if err := s.cache.InvalidateAll(ctx); err != nil {
			s.logger.Warn("UpdateService: failed to invalidate availability cache: %v", err)
		}
	}

	s.logger.Info("UpdateService: updated service id=%d", id)
	resp := models.FromDomainService(updated)
	return &resp, nil
}

func validateService(s *domain.Service) error {
	if s.Name == "" || utf8.RuneCountInString(s.Name) > domain.MaxServiceNameLength {
		return fmt.Errorf("%w: nombre is required and must be at most %d characters",
			ErrInvalidInput, domain.MaxServiceNameLength)
	}
	if s.Price < 0 {
		return fmt.Errorf("%w: precio must not be negative", ErrInvalidInput)
	}
	if s.DurationMinutes < domain.MinServiceDurationMinutes || s.DurationMinutes > domain.MaxServiceDurationMinutes {
		return fmt.Errorf("%w: duracion must be between %d and %d minutes",
			ErrInvalidInput, domain.MinServiceDurationMinutes, domain.MaxServiceDurationMinutes)
	}
	return nil
}
