package create_booking

import (
	"context"
	"time"

	"github.com/inksync/studio-booking/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
}

// ResourceRepository интерфейс репозитория ресурсов
type ResourceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
}

// OfferingRepository интерфейс репозитория услуг
type OfferingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.ServiceOffering, error)
}

// WaitlistRepository интерфейс репозитория листа ожидания
type WaitlistRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.WaitlistEntry, error)
	Deactivate(ctx context.Context, id int64, at time.Time, promotedBookingID *int64) error
}

// Availability занятость ресурса во внешнем календаре
type Availability interface {
	Location() *time.Location
	ExternalBusy(ctx context.Context, res *domain.Resource, window domain.Interval) ([]domain.Interval, error)
}

// ResourceLocker сериализация операций по одному ресурсу
type ResourceLocker interface {
	WithResourceLock(ctx context.Context, resourceID int64, fn func(ctx context.Context) error) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// SideEffects действия после фиксации бронирования
type SideEffects interface {
	BookingCreated(ctx context.Context, b *domain.Booking, resource *domain.Resource)
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
