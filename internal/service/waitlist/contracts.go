package waitlist

import (
	"context"
	"time"

	"github.com/inksync/studio-booking/internal/domain"
)

// WaitlistRepository интерфейс репозитория листа ожидания
type WaitlistRepository interface {
	Create(ctx context.Context, e *domain.WaitlistEntry) (*domain.WaitlistEntry, error)
	GetByID(ctx context.Context, id int64) (*domain.WaitlistEntry, error)
	List(ctx context.Context, filter domain.WaitlistFilter) ([]*domain.WaitlistEntry, error)
	Update(ctx context.Context, e *domain.WaitlistEntry) (*domain.WaitlistEntry, error)
	Deactivate(ctx context.Context, id int64, at time.Time, promotedBookingID *int64) error
}

// ResourceRepository интерфейс репозитория ресурсов
type ResourceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
