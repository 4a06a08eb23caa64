package resources

import (
	"context"

	"github.com/inksync/studio-booking/internal/domain"
)

// ResourceRepository интерфейс репозитория ресурсов
type ResourceRepository interface {
	Create(ctx context.Context, res *domain.Resource) (*domain.Resource, error)
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
	List(ctx context.Context, onlyAvailable bool) ([]*domain.Resource, error)
	Update(ctx context.Context, res *domain.Resource) (*domain.Resource, error)
	SetWorkingHours(ctx context.Context, resourceID int64, hours domain.WorkingHours) error
}

// OfferingRepository интерфейс репозитория услуг
type OfferingRepository interface {
	Create(ctx context.Context, o *domain.ServiceOffering) (*domain.ServiceOffering, error)
	GetByID(ctx context.Context, id int64) (*domain.ServiceOffering, error)
	ListByResource(ctx context.Context, resourceID int64, includeInactive bool) ([]*domain.ServiceOffering, error)
	Update(ctx context.Context, o *domain.ServiceOffering) (*domain.ServiceOffering, error)
}

// SideEffects реакция на изменение доступности ресурса
type SideEffects interface {
	ResourceChanged(ctx context.Context, resourceID int64)
	ResourceOpened(ctx context.Context, resource *domain.Resource)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
