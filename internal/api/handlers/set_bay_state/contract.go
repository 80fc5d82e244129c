package set_bay_state

import (
	"context"

	"github.com/m04kA/SMC-BayBookingService/internal/domain"
)

type BayService interface {
	SetState(ctx context.Context, locationID string, number int, isActive bool, reason string) (*domain.Bay, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
