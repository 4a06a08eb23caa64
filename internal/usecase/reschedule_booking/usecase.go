package reschedule_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/inksync/studio-booking/internal/domain"
	"github.com/inksync/studio-booking/internal/infra/lock"
	bookingRepo "github.com/inksync/studio-booking/internal/infra/storage/booking"
	offeringRepo "github.com/inksync/studio-booking/internal/infra/storage/offering"
	"github.com/inksync/studio-booking/internal/service/bookings/models"
	"github.com/inksync/studio-booking/pkg/txmanager"
)

// UseCase use case для переноса бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	resourceRepo ResourceRepository
	offeringRepo OfferingRepository
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

// Execute переносит бронирование на новое время.
// Длительность берется из услуги, пересечение с самим собой не учитывается.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*models.BookingResponse, error) {
	uc.logger.Info("RescheduleBooking: booking id=%d by user=%d, new start=%s",
		req.BookingID, req.RequesterID, req.NewStartTime.Format(time.RFC3339))

	if req.NewStartTime.IsZero() {
		return nil, fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	now := uc.timeProvider.Now()

	// 1. Бронирование, ресурс и права
	booking, res, err := uc.load(ctx, req)
	if err != nil {
		return nil, err
	}

	// 2. Новый интервал с длительностью услуги
	interval, err := uc.newInterval(ctx, booking, req.NewStartTime)
	if err != nil {
		return nil, err
	}
	if err := uc.validateInterval(res, interval, now); err != nil {
		uc.logger.Warn("RescheduleBooking: interval rejected for booking id=%d: %v", booking.ID, err)
		return nil, err
	}

	// 3. Внешний календарь
	busy, err := uc.availability.ExternalBusy(ctx, res, interval)
	if err != nil {
		uc.logger.Warn("RescheduleBooking: external calendar check skipped for resource id=%d: %v", res.ID, err)
	}
	if interval.OverlapsAny(busy) {
		uc.metrics.IncBookings("conflict")
		return nil, ErrSlotNotAvailable
	}

	previous := booking.Interval()

	// 4. Перенос под блокировкой ресурса
	err = uc.locker.WithResourceLock(ctx, res.ID, func(lockCtx context.Context) error {
		return uc.txManager.DoSerializable(lockCtx, func(txCtx context.Context) error {
			current, err := uc.bookingRepo.GetByID(txCtx, booking.ID)
			if err != nil {
				return fmt.Errorf("%w: failed to reload booking: %w", ErrInternal, err)
			}
			if !current.CanBeRescheduled() {
				return ErrCannotReschedule
			}

			excludeID := current.ID
			overlapping, err := uc.bookingRepo.List(txCtx, domain.BookingsFilter{
				ResourceID: &res.ID,
				From:       &interval.Start,
				To:         &interval.End,
				ExcludeID:  &excludeID,
			})
			if err != nil {
				return fmt.Errorf("%w: failed to get bookings: %w", ErrInternal, err)
			}
			if len(overlapping) > 0 {
				uc.logger.Warn("RescheduleBooking: interval overlaps booking id=%d", overlapping[0].ID)
				return ErrSlotNotAvailable
			}

			if err := uc.bookingRepo.Reschedule(txCtx, current.ID, interval.Start, interval.End, now); err != nil {
				switch {
				case errors.Is(err, bookingRepo.ErrSlotNotAvailable):
					return ErrSlotNotAvailable
				case errors.Is(err, bookingRepo.ErrInvalidTransition):
					return ErrCannotReschedule
				}
				return fmt.Errorf("%w: failed to reschedule booking: %w", ErrInternal, err)
			}

			booking = current
			return nil
		})
	})
	if err != nil {
		return nil, uc.mapError(booking.ID, err)
	}

	booking.StartTime = interval.Start
	booking.EndTime = interval.End
	booking.UpdatedAt = now

	uc.metrics.IncBookings("rescheduled")
	uc.effects.BookingRescheduled(ctx, booking, res, previous)

	uc.logger.Info("RescheduleBooking: booking id=%d moved to %s", booking.ID, interval.Start.Format(time.RFC3339))
	return models.FromDomainBooking(booking), nil
}

func (uc *UseCase) load(ctx context.Context, req *Request) (*domain.Booking, *domain.Resource, error) {
	booking, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("RescheduleBooking: booking id=%d not found", req.BookingID)
			return nil, nil, ErrBookingNotFound
		}
		uc.logger.Error("RescheduleBooking: failed to get booking id=%d: %v", req.BookingID, err)
		return nil, nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	res, err := uc.resourceRepo.GetByID(ctx, booking.ResourceID)
	if err != nil {
		uc.logger.Error("RescheduleBooking: failed to get resource id=%d: %v", booking.ResourceID, err)
		return nil, nil, fmt.Errorf("%w: failed to get resource: %v", ErrInternal, err)
	}

	if booking.CustomerID != req.RequesterID && !res.IsManagedBy(req.RequesterID) {
		uc.logger.Warn("RescheduleBooking: access denied for user=%d to booking id=%d", req.RequesterID, booking.ID)
		return nil, nil, ErrAccessDenied
	}
	if !booking.CanBeRescheduled() {
		uc.logger.Warn("RescheduleBooking: booking id=%d cannot be rescheduled, status=%s", booking.ID, booking.Status)
		return nil, nil, ErrCannotReschedule
	}
	if !res.IsAvailable {
		return nil, nil, ErrResourceUnavailable
	}
	return booking, res, nil
}

// newInterval длительность из услуги; если услуга удалена, сохраняется прежняя
func (uc *UseCase) newInterval(ctx context.Context, b *domain.Booking, start time.Time) (domain.Interval, error) {
	duration := b.EndTime.Sub(b.StartTime)

	offering, err := uc.offeringRepo.GetByID(ctx, b.OfferingID)
	switch {
	case err == nil:
		if offering.DurationMinutes > 0 {
			duration = offering.Duration()
		}
	case errors.Is(err, offeringRepo.ErrOfferingNotFound):
		uc.logger.Warn("RescheduleBooking: offering id=%d not found, keeping duration", b.OfferingID)
	default:
		uc.logger.Error("RescheduleBooking: failed to get offering id=%d: %v", b.OfferingID, err)
		return domain.Interval{}, fmt.Errorf("%w: failed to get offering: %v", ErrInternal, err)
	}

	return domain.Interval{Start: start, End: start.Add(duration)}, nil
}

func (uc *UseCase) validateInterval(res *domain.Resource, interval domain.Interval, now time.Time) error {
	if interval.Start.Before(now) {
		return ErrStartInPast
	}
	loc := uc.availability.Location()
	local := interval.Start.In(loc)
	window, ok := res.WorkingHours.ForDay(local.Weekday()).Window(local, loc)
	if !ok || !window.Contains(interval) {
		return ErrOutsideWorkingHours
	}
	return nil
}

func (uc *UseCase) mapError(bookingID int64, err error) error {
	switch {
	case errors.Is(err, ErrSlotNotAvailable), txmanager.IsRetryable(err):
		uc.logger.Warn("RescheduleBooking: slot not available for booking id=%d: %v", bookingID, err)
		uc.metrics.IncBookings("conflict")
		return ErrSlotNotAvailable
	case errors.Is(err, ErrCannotReschedule):
		return ErrCannotReschedule
	case errors.Is(err, lock.ErrLockNotAcquired):
		uc.logger.Warn("RescheduleBooking: lock wait expired for booking id=%d", bookingID)
		uc.metrics.IncBookings("conflict")
		return ErrSlotNotAvailable
	default:
		uc.logger.Error("RescheduleBooking: failed for booking id=%d: %v", bookingID, err)
		if errors.Is(err, ErrInternal) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}
