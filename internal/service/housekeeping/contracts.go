package housekeeping

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BayBookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	ExpireDuePayments(ctx context.Context, now time.Time) ([]domain.BayRef, error)
	ListAutoCompleteCandidates(ctx context.Context, now time.Time) ([]*domain.Booking, error)
	CompleteByIDs(ctx context.Context, ids []string) error
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
