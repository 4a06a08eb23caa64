package availability

import (
	"context"
	"time"

	"github.com/inksync/studio-booking/internal/domain"
	"github.com/inksync/studio-booking/internal/integrations/calendar"
)

// ResourceRepository интерфейс репозитория ресурсов
type ResourceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
}

// CalendarAdapter чтение занятости внешнего календаря
type CalendarAdapter interface {
	GetBusyIntervals(ctx context.Context, resource *domain.Resource, from, to time.Time) ([]calendar.BusyInterval, error)
}

// DayCache кэш доступности по дням
type DayCache interface {
	GetOrLoadDays(
		ctx context.Context,
		resourceID int64,
		from, to time.Time,
		load func(ctx context.Context) ([]domain.DayAvailability, error),
	) ([]domain.DayAvailability, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
