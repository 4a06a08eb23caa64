package calendar

import (
	"context"
	"time"

	"github.com/inksync/studio-booking/internal/domain"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Adapter внешний календарь мастера: чтение занятости и синхронизация бронирований
type Adapter interface {
	GetBusyIntervals(ctx context.Context, resource *domain.Resource, from, to time.Time) ([]BusyInterval, error)
	CreateEvent(ctx context.Context, resource *domain.Resource, interval domain.Interval, meta EventMetadata) (string, error)
	UpdateEvent(ctx context.Context, resource *domain.Resource, eventID string, interval domain.Interval, meta EventMetadata) error
	DeleteEvent(ctx context.Context, resource *domain.Resource, eventID string) error
}
