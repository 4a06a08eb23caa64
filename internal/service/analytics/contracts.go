package analytics

import (
	"context"

	"github.com/inksync/studio-booking/internal/domain"
	"github.com/inksync/studio-booking/internal/integrations/advisor"
)

// BookingRepository выборка бронирований
type BookingRepository interface {
	List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
}

// WaitlistRepository выборка заявок листа ожидания
type WaitlistRepository interface {
	List(ctx context.Context, filter domain.WaitlistFilter) ([]*domain.WaitlistEntry, error)
}

// ResourceRepository справочник мастеров
type ResourceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
	List(ctx context.Context, onlyAvailable bool) ([]*domain.Resource, error)
}

// Advisor генерация выводов по аналитике
type Advisor interface {
	Summarize(ctx context.Context, snapshot advisor.Snapshot) (*advisor.Summary, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
