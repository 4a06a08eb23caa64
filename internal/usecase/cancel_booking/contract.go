package cancel_booking

import (
	"context"
	"time"

	"github.com/inksync/studio-booking/internal/domain"
	"github.com/inksync/studio-booking/internal/integrations/advisor"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	Cancel(ctx context.Context, id int64, reason string, at time.Time) error
}

// ResourceRepository интерфейс репозитория ресурсов
type ResourceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
	List(ctx context.Context, onlyAvailable bool) ([]*domain.Resource, error)
}

// Availability поиск открытых дат мастера
type Availability interface {
	OpenDates(ctx context.Context, resourceID int64, from time.Time, days int) ([]time.Time, error)
}

// Advisor подбор альтернатив для отмененного бронирования
type Advisor interface {
	SuggestAlternatives(ctx context.Context, req advisor.AlternativesRequest) (*advisor.Alternatives, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// SideEffects действия после фиксации отмены
type SideEffects interface {
	BookingCancelled(ctx context.Context, b *domain.Booking, resource *domain.Resource)
}

// Metrics счетчик операций с бронированиями
type Metrics interface {
	IncBookings(result string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
