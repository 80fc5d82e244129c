// Package notify рассылка уведомлений об изменениях расписания боксов.
// Уведомления отправляются по принципу fire-and-forget: ошибка доставки
// логируется и никогда не влияет на результат операции.
package notify

import (
	"context"
)

// Notifier получатель событий об изменении расписания бокса
type Notifier interface {
	NotifyBayChanged(ctx context.Context, locationID string, bayNumber int)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// LogNotifier пишет события только в лог. Используется, когда Kafka выключена.
type LogNotifier struct {
	logger Logger
}

// NewLogNotifier создает нотификатор, пишущий события в лог
func NewLogNotifier(logger Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// NotifyBayChanged логирует изменение расписания бокса
func (n *LogNotifier) NotifyBayChanged(_ context.Context, locationID string, bayNumber int) {
	n.logger.Info("notify: bay schedule changed, location=%s bay=%d", locationID, bayNumber)
}
