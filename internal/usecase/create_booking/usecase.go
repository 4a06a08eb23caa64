package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/inksync/studio-booking/internal/domain"
	"github.com/inksync/studio-booking/internal/infra/lock"
	bookingRepo "github.com/inksync/studio-booking/internal/infra/storage/booking"
	offeringRepo "github.com/inksync/studio-booking/internal/infra/storage/offering"
	resourceRepo "github.com/inksync/studio-booking/internal/infra/storage/resource"
	waitlistRepo "github.com/inksync/studio-booking/internal/infra/storage/waitlist"
	"github.com/inksync/studio-booking/internal/service/bookings/models"
	"github.com/inksync/studio-booking/pkg/txmanager"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	resourceRepo ResourceRepository
	offeringRepo OfferingRepository
	waitlistRepo WaitlistRepository
	availability Availability
	locker       ResourceLocker
	txManager    TransactionManager
	effects      SideEffects
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	resourceRepo ResourceRepository,
	offeringRepo OfferingRepository,
	waitlistRepo WaitlistRepository,
	availability Availability,
	locker ResourceLocker,
	txManager TransactionManager,
	effects SideEffects,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		resourceRepo: resourceRepo,
		offeringRepo: offeringRepo,
		waitlistRepo: waitlistRepo,
		availability: availability,
		locker:       locker,
		txManager:    txManager,
		effects:      effects,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// SetTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) SetTimeProvider(tp TimeProvider) {
	uc.timeProvider = tp
}

// Execute выполняет use case создания бронирования.
//
// Проверка пересечений и вставка выполняются под блокировкой ресурса
// в сериализуемой транзакции: из параллельных запросов на один интервал
// успешен ровно один, остальные получают ErrSlotNotAvailable.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*models.BookingResponse, error) {
	uc.logger.Info("CreateBooking: customer=%d, resource=%d, offering=%d, start=%s",
		req.CustomerID, req.ResourceID, req.OfferingID, req.StartTime.Format(time.RFC3339))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Получаем ресурс
	res, err := uc.resourceRepo.GetByID(ctx, req.ResourceID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			uc.logger.Warn("CreateBooking: resource id=%d not found", req.ResourceID)
			return nil, ErrResourceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get resource id=%d: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: failed to get resource: %v", ErrInternal, err)
	}
	if !res.IsAvailable {
		uc.logger.Warn("CreateBooking: resource id=%d is not accepting bookings", req.ResourceID)
		return nil, ErrResourceUnavailable
	}

	// 3. Получаем услугу
	offering, err := uc.offeringRepo.GetByID(ctx, req.OfferingID)
	if err != nil {
		if errors.Is(err, offeringRepo.ErrOfferingNotFound) {
			uc.logger.Warn("CreateBooking: offering id=%d not found", req.OfferingID)
			return nil, ErrOfferingNotFound
		}
		uc.logger.Error("CreateBooking: failed to get offering id=%d: %v", req.OfferingID, err)
		return nil, fmt.Errorf("%w: failed to get offering: %v", ErrInternal, err)
	}
	if err := validateOffering(offering, res.ID); err != nil {
		uc.logger.Warn("CreateBooking: offering id=%d rejected for resource id=%d: %v", offering.ID, res.ID, err)
		return nil, err
	}

	// 4. Интервал сеанса и рабочее окно
	interval := domain.Interval{
		Start: req.StartTime,
		End:   req.StartTime.Add(offering.Duration()),
	}
	if err := validateInterval(res, interval, now, uc.availability.Location()); err != nil {
		uc.logger.Warn("CreateBooking: interval rejected for resource id=%d: %v", res.ID, err)
		return nil, err
	}

	// 5. Внешний календарь мастера. Недоступность календаря не блокирует запись.
	busy, err := uc.availability.ExternalBusy(ctx, res, interval)
	if err != nil {
		uc.logger.Warn("CreateBooking: external calendar check skipped for resource id=%d: %v", res.ID, err)
	}
	if interval.OverlapsAny(busy) {
		uc.logger.Warn("CreateBooking: interval overlaps external calendar for resource id=%d", res.ID)
		uc.metrics.IncBookings("conflict")
		return nil, ErrSlotNotAvailable
	}

	var result *domain.Booking

	// 6. Проверка пересечений и вставка под блокировкой ресурса
	err = uc.locker.WithResourceLock(ctx, res.ID, func(lockCtx context.Context) error {
		return uc.txManager.DoSerializable(lockCtx, func(txCtx context.Context) error {
			// 6.1. Заявка листа ожидания
			if req.WaitlistEntryID != nil {
				entry, err := uc.waitlistRepo.GetByID(txCtx, *req.WaitlistEntryID)
				if err != nil {
					if errors.Is(err, waitlistRepo.ErrEntryNotFound) {
						return fmt.Errorf("%w: entry not found", ErrInvalidWaitlistEntry)
					}
					return fmt.Errorf("%w: failed to get waitlist entry: %w", ErrInternal, err)
				}
				if err := validateWaitlistEntry(entry, req.CustomerID, res.ID); err != nil {
					return err
				}
			}

			// 6.2. Активные бронирования, пересекающиеся с интервалом (FOR UPDATE)
			overlapping, err := uc.bookingRepo.List(txCtx, domain.BookingsFilter{
				ResourceID: &res.ID,
				From:       &interval.Start,
				To:         &interval.End,
			})
			if err != nil {
				return fmt.Errorf("%w: failed to get bookings: %w", ErrInternal, err)
			}
			if len(overlapping) > 0 {
				uc.logger.Warn("CreateBooking: interval overlaps booking id=%d", overlapping[0].ID)
				return ErrSlotNotAvailable
			}

			// 6.3. Создаем бронирование с денормализацией данных услуги
			created, err := uc.bookingRepo.Create(txCtx, &domain.Booking{
				CustomerID:      req.CustomerID,
				ResourceID:      res.ID,
				OfferingID:      offering.ID,
				StartTime:       interval.Start,
				EndTime:         interval.End,
				Status:          domain.StatusScheduled,
				Notes:           req.Notes,
				OfferingName:    offering.Name,
				OfferingPrice:   offering.Price,
				WaitlistEntryID: req.WaitlistEntryID,
			})
			if err != nil {
				if errors.Is(err, bookingRepo.ErrSlotNotAvailable) {
					return ErrSlotNotAvailable
				}
				return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
			}

			// 6.4. Заявка листа ожидания превращается в бронирование
			if req.WaitlistEntryID != nil {
				if err := uc.waitlistRepo.Deactivate(txCtx, *req.WaitlistEntryID, now, &created.ID); err != nil {
					if errors.Is(err, waitlistRepo.ErrEntryInactive) || errors.Is(err, waitlistRepo.ErrEntryNotFound) {
						return fmt.Errorf("%w: %v", ErrInvalidWaitlistEntry, err)
					}
					return fmt.Errorf("%w: failed to deactivate waitlist entry: %w", ErrInternal, err)
				}
			}

			result = created
			return nil
		})
	})

	if err != nil {
		return nil, uc.mapError(res.ID, err)
	}

	uc.metrics.IncBookings("created")
	uc.effects.BookingCreated(ctx, result, res)

	uc.logger.Info("CreateBooking: successfully created booking id=%d", result.ID)
	return models.FromDomainBooking(result), nil
}

// mapError переводит ошибки блокировки и транзакции в ошибки usecase
func (uc *UseCase) mapError(resourceID int64, err error) error {
	switch {
	case errors.Is(err, ErrSlotNotAvailable):
		uc.metrics.IncBookings("conflict")
		return ErrSlotNotAvailable
	case txmanager.IsRetryable(err):
		uc.logger.Warn("CreateBooking: serialization retries exhausted for resource id=%d: %v", resourceID, err)
		uc.metrics.IncBookings("conflict")
		return ErrSlotNotAvailable
	case errors.Is(err, lock.ErrLockNotAcquired):
		// Конкурент удерживает расписание дольше ожидания: для клиента это занятый слот
		uc.logger.Warn("CreateBooking: lock wait expired for resource id=%d", resourceID)
		uc.metrics.IncBookings("conflict")
		return ErrSlotNotAvailable
	case errors.Is(err, ErrInvalidWaitlistEntry):
		uc.logger.Warn("CreateBooking: %v", err)
		return err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		uc.logger.Warn("CreateBooking: cancelled for resource id=%d: %v", resourceID, err)
		return fmt.Errorf("%w: %v", ErrInternal, err)
	default:
		uc.logger.Error("CreateBooking: failed for resource id=%d: %v", resourceID, err)
		if errors.Is(err, ErrInternal) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}
