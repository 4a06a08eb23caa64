package notifier

import "context"

// Sender доставка уведомлений клиенту
type Sender interface {
	Send(ctx context.Context, n Notification) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
