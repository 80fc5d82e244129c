package convert_waitlist

import (
	"context"

	"github.com/m04kA/SMC-BayBookingService/internal/domain"
	"github.com/m04kA/SMC-BayBookingService/internal/usecase/convert_waitlist"
)

type UseCase interface {
	Execute(ctx context.Context, req *convert_waitlist.Request) (*domain.Booking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
