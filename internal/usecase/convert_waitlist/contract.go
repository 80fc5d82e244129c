package convert_waitlist

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BayBookingService/internal/domain"
	"github.com/m04kA/SMC-BayBookingService/internal/service/conflicts"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
}

// WaitlistRepository интерфейс репозитория листа ожидания
type WaitlistRepository interface {
	GetByID(ctx context.Context, id string) (*domain.WaitlistRequest, error)
	MarkConverted(ctx context.Context, id string, bookingID string, invitedAt time.Time) error
}

// CatalogRepository интерфейс репозитория каталога услуг
type CatalogRepository interface {
	GetService(ctx context.Context, id string) (*domain.Service, error)
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

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
