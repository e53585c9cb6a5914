package staff

import (
	"context"

	"github.com/Ramses120/Copper-Salon-sub000/internal/service/catalog/models"
)

type CatalogService interface {
	ListStaff(ctx context.Context, includeInactive bool) (*models.StaffListResponse, error)
	CreateStaff(ctx context.Context, req *models.CreateStaffRequest) (*models.StaffResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
