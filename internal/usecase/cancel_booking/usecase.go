package cancel_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/inksync/studio-booking/internal/domain"
	bookingRepo "github.com/inksync/studio-booking/internal/infra/storage/booking"
	"github.com/inksync/studio-booking/internal/integrations/advisor"
	"github.com/inksync/studio-booking/internal/service/bookings/models"
	"github.com/inksync/studio-booking/pkg/ptr"
)

// UseCase use case для отмены бронирования
type UseCase struct {
	bookingRepo     BookingRepository
	resourceRepo    ResourceRepository
	availability    Availability
	advisor         Advisor
	txManager       TransactionManager
	effects         SideEffects
	metrics         Metrics
	alternativeDays int
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case.
// alternativeDays горизонт поиска дат для альтернатив.
func NewUseCase(
	bookingRepo BookingRepository,
	resourceRepo ResourceRepository,
	availability Availability,
	advisorClient Advisor,
	txManager TransactionManager,
	effects SideEffects,
	metrics Metrics,
	alternativeDays int,
	logger Logger,
) *UseCase {
	if alternativeDays <= 0 {
		alternativeDays = domain.DefaultAlternativeDays
	}
	return &UseCase{
		bookingRepo:     bookingRepo,
		resourceRepo:    resourceRepo,
		availability:    availability,
		advisor:         advisorClient,
		txManager:       txManager,
		effects:         effects,
		metrics:         metrics,
		alternativeDays: alternativeDays,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// SetTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) SetTimeProvider(tp TimeProvider) {
	uc.timeProvider = tp
}

// Execute отменяет бронирование и подбирает альтернативы.
// Отмена сразу освобождает интервал, уведомления и поиск кандидатов
// из листа ожидания выполняются после фиксации.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelBooking: booking id=%d by user=%d", req.BookingID, req.RequesterID)

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		uc.logger.Warn("CancelBooking: empty reason for booking id=%d", req.BookingID)
		return nil, fmt.Errorf("%w: reason is required", ErrInvalidInput)
	}
	if len([]rune(reason)) > domain.MaxCancellationReasonLength {
		uc.logger.Warn("CancelBooking: reason too long for booking id=%d", req.BookingID)
		return nil, fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	now := uc.timeProvider.Now()

	var (
		booking *domain.Booking
		res     *domain.Resource
	)
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		booking, err = uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				uc.logger.Warn("CancelBooking: booking id=%d not found", req.BookingID)
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		res, err = uc.resourceRepo.GetByID(txCtx, booking.ResourceID)
		if err != nil {
			return fmt.Errorf("%w: failed to get resource: %v", ErrInternal, err)
		}

		if booking.CustomerID != req.RequesterID && !res.IsManagedBy(req.RequesterID) {
			uc.logger.Warn("CancelBooking: access denied for user=%d to booking id=%d", req.RequesterID, booking.ID)
			return ErrAccessDenied
		}

		if !booking.CanBeCancelled() {
			uc.logger.Warn("CancelBooking: booking id=%d cannot be cancelled, status=%s", booking.ID, booking.Status)
			return ErrCannotCancel
		}

		if err := uc.bookingRepo.Cancel(txCtx, booking.ID, reason, now); err != nil {
			if errors.Is(err, bookingRepo.ErrInvalidTransition) {
				return ErrCannotCancel
			}
			return fmt.Errorf("%w: failed to cancel booking: %v", ErrInternal, err)
		}

		booking.Status = domain.StatusCancelled
		booking.CancellationReason = &reason
		booking.CancelledAt = &now
		booking.UpdatedAt = now
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInternal) {
			uc.logger.Error("CancelBooking: booking id=%d: %v", req.BookingID, err)
		}
		return nil, err
	}

	uc.metrics.IncBookings("cancelled")
	uc.effects.BookingCancelled(ctx, booking, res)

	uc.logger.Info("CancelBooking: booking id=%d cancelled", booking.ID)
	return &Response{
		Booking:      models.FromDomainBooking(booking),
		Alternatives: uc.alternatives(ctx, booking, res, reason, now),
	}, nil
}

// alternatives собирает реальные варианты (другие мастера и открытые даты)
// и просит советника выбрать из них. Ошибки не прерывают отмену.
func (uc *UseCase) alternatives(ctx context.Context, b *domain.Booking, res *domain.Resource, reason string, now time.Time) *Alternatives {
	dates, err := uc.availability.OpenDates(ctx, res.ID, now, uc.alternativeDays)
	if err != nil {
		uc.logger.Warn("CancelBooking: open dates for resource id=%d failed: %v", res.ID, err)
		dates = nil
	}

	resources, err := uc.resourceRepo.List(ctx, true)
	if err != nil {
		uc.logger.Warn("CancelBooking: list resources failed: %v", err)
		resources = nil
	}

	byID := make(map[int64]*domain.Resource, len(resources))
	candidates := make([]advisor.ResourceSummary, 0, len(resources))
	for _, r := range resources {
		if r.ID == res.ID {
			continue
		}
		byID[r.ID] = r
		candidates = append(candidates, advisor.ResourceSummary{
			ID:          r.ID,
			Name:        r.Name,
			Specialty:   r.Specialty,
			Bio:         ptr.Deref(r.Bio, ""),
			IsAvailable: r.IsAvailable,
		})
	}

	dateStrings := make([]string, 0, len(dates))
	for _, d := range dates {
		dateStrings = append(dateStrings, d.Format(domain.DateFormat))
	}

	out := &Alternatives{Resources: []ResourceOption{}, Dates: []string{}}

	suggested, err := uc.advisor.SuggestAlternatives(ctx, advisor.AlternativesRequest{
		BookingID:    b.ID,
		ResourceID:   res.ID,
		ResourceName: res.Name,
		OfferingName: b.OfferingName,
		StartTime:    b.StartTime.Format(time.RFC3339),
		Reason:       reason,
		Candidates:   candidates,
		Dates:        dateStrings,
	})
	if err != nil || suggested == nil {
		uc.logger.Warn("CancelBooking: advisor alternatives unavailable: %v", err)
		return out
	}

	out.Message = suggested.Message
	for _, id := range suggested.ResourceIDs {
		if r, ok := byID[id]; ok {
			out.Resources = append(out.Resources, ResourceOption{ID: r.ID, Name: r.Name, Specialty: r.Specialty})
		}
	}
	out.Dates = append(out.Dates, suggested.Dates...)
	return out
}
