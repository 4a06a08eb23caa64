package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/inksync/studio-booking/internal/config"
	"github.com/inksync/studio-booking/internal/domain"
	"github.com/inksync/studio-booking/internal/infra/migrations"
	bookingRepo "github.com/inksync/studio-booking/internal/infra/storage/booking"
	"github.com/inksync/studio-booking/internal/infra/storage/memory"
	offeringRepo "github.com/inksync/studio-booking/internal/infra/storage/offering"
	resourceRepo "github.com/inksync/studio-booking/internal/infra/storage/resource"
	waitlistRepo "github.com/inksync/studio-booking/internal/infra/storage/waitlist"
	"github.com/inksync/studio-booking/pkg/dbmetrics"
	"github.com/inksync/studio-booking/pkg/logger"
	"github.com/inksync/studio-booking/pkg/metrics"
	"github.com/inksync/studio-booking/pkg/txmanager"
)

// Хранилища postgres и memory реализуют одинаковые наборы методов

type bookingStore interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
	Cancel(ctx context.Context, id int64, reason string, at time.Time) error
	Complete(ctx context.Context, id int64, at time.Time) error
	Reschedule(ctx context.Context, id int64, start, end time.Time, at time.Time) error
	SetExternalEventID(ctx context.Context, id int64, eventID *string) error
	CompleteEnded(ctx context.Context, now time.Time) ([]*domain.Booking, error)
}

type resourceStore interface {
	Create(ctx context.Context, res *domain.Resource) (*domain.Resource, error)
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
	List(ctx context.Context, onlyAvailable bool) ([]*domain.Resource, error)
	Update(ctx context.Context, res *domain.Resource) (*domain.Resource, error)
	SetWorkingHours(ctx context.Context, resourceID int64, hours domain.WorkingHours) error
}

type offeringStore interface {
	Create(ctx context.Context, o *domain.ServiceOffering) (*domain.ServiceOffering, error)
	GetByID(ctx context.Context, id int64) (*domain.ServiceOffering, error)
	ListByResource(ctx context.Context, resourceID int64, includeInactive bool) ([]*domain.ServiceOffering, error)
	Update(ctx context.Context, o *domain.ServiceOffering) (*domain.ServiceOffering, error)
}

type waitlistStore interface {
	Create(ctx context.Context, e *domain.WaitlistEntry) (*domain.WaitlistEntry, error)
	GetByID(ctx context.Context, id int64) (*domain.WaitlistEntry, error)
	List(ctx context.Context, filter domain.WaitlistFilter) ([]*domain.WaitlistEntry, error)
	Update(ctx context.Context, e *domain.WaitlistEntry) (*domain.WaitlistEntry, error)
	Deactivate(ctx context.Context, id int64, at time.Time, promotedBookingID *int64) error
}

type txManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

type storage struct {
	bookings  bookingStore
	resources resourceStore
	offerings offeringStore
	waitlist  waitlistStore
	tx        txManager
	ping      func(ctx context.Context) error
	close     func() error
}

// openStorage открывает хранилище по storage.driver.
// Для postgres при database.auto_migrate применяются встроенные миграции.
func openStorage(ctx context.Context, cfg *config.Config, m *metrics.Metrics, stopCh <-chan struct{}, log *logger.Logger) (*storage, error) {
	if cfg.Storage.Driver == "memory" {
		log.Info("Using in-memory storage")
		store := memory.NewStore()
		return &storage{
			bookings:  memory.NewBookingRepository(store),
			resources: memory.NewResourceRepository(store),
			offerings: memory.NewOfferingRepository(store),
			waitlist:  memory.NewWaitlistRepository(store),
			tx:        memory.NewTxManager(store),
			ping:      func(context.Context) error { return nil },
			close:     func() error { return nil },
		}, nil
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	if cfg.Database.AutoMigrate {
		migrator, err := migrations.NewMigrator(db, log)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		if err := migrator.Up(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	var wrappedDB *dbmetrics.DB
	if m != nil {
		wrappedDB = dbmetrics.WrapWithDefault(db, m, stopCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil)
	}

	return &storage{
		bookings:  bookingRepo.NewRepository(wrappedDB),
		resources: resourceRepo.NewRepository(wrappedDB),
		offerings: offeringRepo.NewRepository(wrappedDB),
		waitlist:  waitlistRepo.NewRepository(wrappedDB),
		tx:        txmanager.NewTransactionManager(wrappedDB),
		ping:      db.PingContext,
		close:     db.Close,
	}, nil
}
