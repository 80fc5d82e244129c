package create_car

import (
	"context"

	"github.com/m04kA/SMC-BayBookingService/internal/domain"
	"github.com/m04kA/SMC-BayBookingService/internal/service/cars"
)

type CarService interface {
	Create(ctx context.Context, req cars.CreateRequest) (*domain.Car, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
