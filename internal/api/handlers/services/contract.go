package services

import (
	"context"

	"github.com/Ramses120/Copper-Salon-sub000/internal/service/catalog/models"
)

type CatalogService interface {
	ListServices(ctx context.Context, includeInactive bool) (*models.ServiceListResponse, error)
	CreateService(ctx context.Context, req *models.CreateServiceRequest) (*models.ServiceResponse, error)
	UpdateService(ctx context.Context, id int64, req *models.UpdateServiceRequest) (*models.ServiceResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
