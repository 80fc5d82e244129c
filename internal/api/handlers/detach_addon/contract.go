package detach_addon

import (
	"context"

	"github.com/m04kA/SMC-BayBookingService/internal/domain"
)

type BookingService interface {
	DetachAddon(ctx context.Context, bookingID, serviceID string, clientID string) (*domain.Booking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
