package attach_addon

import (
	"context"

	"github.com/m04kA/SMC-BayBookingService/internal/domain"
	"github.com/m04kA/SMC-BayBookingService/internal/usecase/attach_addon"
)

type UseCase interface {
	Execute(ctx context.Context, req *attach_addon.Request) (*domain.Booking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
