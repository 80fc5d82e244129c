package finish_booking

import (
	"context"

	"github.com/m04kA/SMC-BayBookingService/internal/domain"
)

type BookingService interface {
	Finish(ctx context.Context, id string) (*domain.Booking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
