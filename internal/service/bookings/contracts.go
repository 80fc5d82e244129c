package bookings

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BayBookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	List(ctx context.Context, filter domain.ListFilter) ([]*domain.Booking, error)
	Cancel(ctx context.Context, id string, reason string, now time.Time) error
	MarkStarted(ctx context.Context, id string, startedAt time.Time, status domain.BookingStatus) error
	MarkFinished(ctx context.Context, id string, finishedAt time.Time) error
	DeleteAddon(ctx context.Context, bookingID, serviceID string) error
}

// CapacityService ворота вместимости для операций, требующих открытый бокс
type CapacityService interface {
	RequireBayActive(ctx context.Context, locationID string, bayNumber int) error
}

// Housekeeper синхронная уборка статусов перед операцией
type Housekeeper interface {
	Run(ctx context.Context) error
}

// Notifier получатель событий об изменении расписания бокса
type Notifier interface {
	NotifyBayChanged(ctx context.Context, locationID string, bayNumber int)
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
