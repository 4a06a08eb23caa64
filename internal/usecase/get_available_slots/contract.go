package get_available_slots

import (
	"context"
	"time"

	"github.com/inksync/studio-booking/internal/domain"
)

// OfferingRepository интерфейс репозитория услуг
type OfferingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.ServiceOffering, error)
}

// Availability сетка слотов дня
type Availability interface {
	Location() *time.Location
	ParseDate(value string) (time.Time, error)
	ComputeSlots(ctx context.Context, resourceID int64, date time.Time, granularity int) ([]domain.Slot, error)
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
