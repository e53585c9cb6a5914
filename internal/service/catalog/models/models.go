package models

import (
	"time"

	"github.com/Ramses120/Copper-Salon-sub000/internal/domain"
)

// Request модели

// CreateStaffRequest запрос на добавление мастера
type CreateStaffRequest struct {
	Nombre string `json:"nombre"`
	Activo *bool  `json:"activo,omitempty"` // по умолчанию true
}

// CreateServiceRequest запрос на добавление услуги
type CreateServiceRequest struct {
	Nombre   string  `json:"nombre"`
	Precio   float64 `json:"precio"`
	Duracion int     `json:"duracion"` // минуты
	Activo   *bool   `json:"activo,omitempty"`
}

// UpdateServiceRequest частичное обновление услуги
type UpdateServiceRequest struct {
	Nombre   *string  `json:"nombre,omitempty"`
	Precio   *float64 `json:"precio,omitempty"`
	Duracion *int     `json:"duracion,omitempty"`
	Activo   *bool    `json:"activo,omitempty"`
}

// ApplyTo применяет переданные поля к услуге
func (r *UpdateServiceRequest) ApplyTo(s *domain.Service) {
	if r.Nombre != nil {
		s.Name = *r.Nombre
	}
	if r.Precio != nil {
		s.Price = *r.Precio
	}
	if r.Duracion != nil {
		s.DurationMinutes = *r.Duracion
	}
	if r.Activo != nil {
		s.Active = *r.Activo
	}
}

// Response модели

// StaffResponse данные мастера
type StaffResponse struct {
	ID        int64  `json:"id"`
	Nombre    string `json:"nombre"`
	Activo    bool   `json:"activo"`
	CreatedAt string `json:"createdAt"`
}

// StaffListResponse список мастеров
type StaffListResponse struct {
	Staff []StaffResponse `json:"staff"`
}

// ServiceResponse данные услуги
type ServiceResponse struct {
	ID        int64   `json:"id"`
	Nombre    string  `json:"nombre"`
	Precio    float64 `json:"precio"`
	Duracion  int     `json:"duracion"`
	Activo    bool    `json:"activo"`
	UpdatedAt string  `json:"updatedAt"`
}

// ServiceListResponse список услуг
type ServiceListResponse struct {
	Servicios []ServiceResponse `json:"servicios"`
}

// Методы конвертации

func FromDomainStaff(m *domain.StaffMember) StaffResponse {
	return StaffResponse{
		ID:        m.ID,
		Nombre:    m.Name,
		Activo:    m.Active,
		CreatedAt: m.CreatedAt.Format(time.RFC3339),
	}
}

func FromDomainStaffList(members []*domain.StaffMember) *StaffListResponse {
	resp := &StaffListResponse{Staff: make([]StaffResponse, 0, len(members))}
	for _, m := range members {
		resp.Staff = append(resp.Staff, FromDomainStaff(m))
	}
	return resp
}

func FromDomainService(s *domain.Service) ServiceResponse {
	return ServiceResponse{
		ID:        s.ID,
		Nombre:    s.Name,
		Precio:    s.Price,
		Duracion:  s.DurationMinutes,
		Activo:    s.Active,
		UpdatedAt: s.UpdatedAt.Format(time.RFC3339),
	}
}

func FromDomainServiceList(services []*domain.Service) *ServiceListResponse {
	resp := &ServiceListResponse{Servicios: make([]ServiceResponse, 0, len(services))}
	for _, s := range services {
		resp.Servicios = append(resp.Servicios, FromDomainService(s))
	}
	return resp
}
