package move_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BayBookingService/internal/domain"
	"github.com/m04kA/SMC-BayBookingService/internal/service/conflicts"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	UpdateSchedule(ctx context.Context, id string, newStart time.Time, newBayNumber int) error
}

// ConflictChecker проверка пересечений кандидатского интервала
type ConflictChecker interface {
	EnsureSlotFree(ctx context.Context, req conflicts.CheckRequest) error
}

// CapacityGate ворота вместимости
type CapacityGate interface {
	RequireBayActive(ctx context.Context, locationID string, bayNumber int) error
}

// Housekeeper синхронная уборка статусов перед операцией
type Housekeeper interface {
	Run(ctx context.Context) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier получатель событий об изменении расписания бокса
type Notifier interface {
	NotifyBayChanged(ctx context.Context, locationID string, bayNumber int)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
