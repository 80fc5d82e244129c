package bays

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BayBookingService/internal/domain"
)

// BayRepository интерфейс репозитория боксов
type BayRepository interface {
	GetLocation(ctx context.Context, id string) (*domain.Location, error)
	GetBay(ctx context.Context, locationID string, number int) (*domain.Bay, error)
	ListBays(ctx context.Context, locationID string) ([]*domain.Bay, error)
	Close(ctx context.Context, locationID string, number int, reason string, now time.Time) error
	Reopen(ctx context.Context, locationID string, number int, now time.Time) error
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
