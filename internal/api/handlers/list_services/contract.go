package list_services

import (
	"context"

	"github.com/m04kA/SMC-BayBookingService/internal/domain"
)

type CatalogRepository interface {
	ListServices(ctx context.Context, locationID string) ([]*domain.Service, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
