package list_waitlist

import (
	"context"

	"github.com/m04kA/SMC-BayBookingService/internal/domain"
)

type WaitlistService interface {
	ListByClient(ctx context.Context, clientID string) ([]*domain.WaitlistRequest, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
