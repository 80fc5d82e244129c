package cars

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BayBookingService/internal/domain"
)

// CarRepository интерфейс репозитория автомобилей
type CarRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Car, error)
	FindByPlate(ctx context.Context, plateNormalized string) (*domain.Car, error)
	Create(ctx context.Context, car *domain.Car) (*domain.Car, error)
	ListByClient(ctx context.Context, clientID string) ([]*domain.Car, error)
	Delete(ctx context.Context, id string) error
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	HasActiveFrom(ctx context.Context, carID string, from time.Time) (bool, error)
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
