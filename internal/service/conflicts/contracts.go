package conflicts

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BayBookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	ListNearby(ctx context.Context, filter domain.NearbyFilter) ([]*domain.Booking, error)
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
