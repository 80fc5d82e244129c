package waitlist

import (
	"context"

	"github.com/m04kA/SMC-BayBookingService/internal/domain"
)

// WaitlistRepository интерфейс репозитория листа ожидания
type WaitlistRepository interface {
	Create(ctx context.Context, request *domain.WaitlistRequest) (*domain.WaitlistRequest, error)
	GetByID(ctx context.Context, id string) (*domain.WaitlistRequest, error)
	ListByClient(ctx context.Context, clientID string) ([]*domain.WaitlistRequest, error)
	Cancel(ctx context.Context, id string, reason string) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
