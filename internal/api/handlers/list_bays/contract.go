package list_bays

import (
	"context"

	"github.com/m04kA/SMC-BayBookingService/internal/domain"
)

type BayService interface {
	List(ctx context.Context, locationID string) ([]*domain.Bay, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
