package delete_car

import "context"

type CarService interface {
	Remove(ctx context.Context, id string, clientID string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
