package capacity

import (
	"context"

	"github.com/m04kA/SMC-BayBookingService/internal/domain"
)

// BayRepository интерфейс репозитория боксов
type BayRepository interface {
	GetLocation(ctx context.Context, id string) (*domain.Location, error)
	GetBay(ctx context.Context, locationID string, number int) (*domain.Bay, error)
	CountActiveBays(ctx context.Context, locationID string) (int, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
