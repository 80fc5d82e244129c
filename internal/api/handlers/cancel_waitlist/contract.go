package cancel_waitlist

import (
	"context"

	"github.com/m04kA/SMC-BayBookingService/internal/domain"
)

type WaitlistService interface {
	CancelByClient(ctx context.Context, id string, clientID string) (*domain.WaitlistRequest, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
