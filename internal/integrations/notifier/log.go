package notifier

import (
	"context"
	"sync"
)

// LogSender пишет уведомления в лог, когда токен бота не настроен.
// Отправленные сообщения сохраняются и доступны через Sent.
type LogSender struct {
	log  Logger
	mu   sync.Mutex
	sent []Notification
}

// NewLogSender создает отправителя
func NewLogSender(log Logger) *LogSender {
	return &LogSender{log: log}
}

// Send логирует уведомление
func (s *LogSender) Send(_ context.Context, n Notification) error {
	if n.RecipientID <= 0 {
		return ErrInvalidRecipient
	}

	s.mu.Lock()
	s.sent = append(s.sent, n)
	s.mu.Unlock()

	s.log.Info("Notification %s for %d: %s", n.Kind, n.RecipientID, n.Text)
	return nil
}

// Sent возвращает копию отправленных уведомлений
func (s *LogSender) Sent() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Notification(nil), s.sent...)
}
