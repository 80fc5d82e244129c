package list_cars

import (
	"context"

	"github.com/m04kA/SMC-BayBookingService/internal/domain"
)

type CarService interface {
	ListByClient(ctx context.Context, clientID string) ([]*domain.Car, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
