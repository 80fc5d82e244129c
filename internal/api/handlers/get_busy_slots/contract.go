package get_busy_slots

import (
	"context"

	"github.com/m04kA/SMC-BayBookingService/internal/domain"
	"github.com/m04kA/SMC-BayBookingService/internal/usecase/get_busy_slots"
)

type UseCase interface {
	Execute(ctx context.Context, req *get_busy_slots.Request) ([]domain.Interval, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
