package sideeffects

import (
	"context"

	"github.com/inksync/studio-booking/internal/domain"
	"github.com/inksync/studio-booking/internal/infra/events"
	"github.com/inksync/studio-booking/internal/integrations/advisor"
	"github.com/inksync/studio-booking/internal/integrations/calendar"
	"github.com/inksync/studio-booking/internal/integrations/notifier"
)

// Dispatcher очередь побочных задач
type Dispatcher interface {
	Submit(name string, run func(ctx context.Context) error) bool
}

// CalendarAdapter зеркалирование бронирований во внешний календарь
type CalendarAdapter interface {
	CreateEvent(ctx context.Context, resource *domain.Resource, interval domain.Interval, meta calendar.EventMetadata) (string, error)
	UpdateEvent(ctx context.Context, resource *domain.Resource, eventID string, interval domain.Interval, meta calendar.EventMetadata) error
	DeleteEvent(ctx context.Context, resource *domain.Resource, eventID string) error
}

// BookingRepository хранение ссылки на зеркальное событие
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	SetExternalEventID(ctx context.Context, id int64, eventID *string) error
}

// CandidateFinder поиск заявок листа ожидания для освободившегося времени
type CandidateFinder interface {
	FindPromotionCandidates(ctx context.Context, resourceID int64, opened domain.Interval) ([]*domain.WaitlistEntry, error)
}

// Sender отправка уведомлений
type Sender interface {
	Send(ctx context.Context, n notifier.Notification) error
}

// Advisor генерация текста подтверждения для листа ожидания
type Advisor interface {
	WaitlistMessage(ctx context.Context, prefs advisor.Preferences) (string, error)
}

// AvailabilityCache кэш доступности
type AvailabilityCache interface {
	Invalidate(ctx context.Context, resourceID int64) error
}

// EventPublisher публикация событий бронирований
type EventPublisher interface {
	Publish(ctx context.Context, ev events.Event) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
