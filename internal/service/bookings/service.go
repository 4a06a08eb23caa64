package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/inksync/studio-booking/internal/domain"
	bookingRepo "github.com/inksync/studio-booking/internal/infra/storage/booking"
	resourceRepo "github.com/inksync/studio-booking/internal/infra/storage/resource"
	"github.com/inksync/studio-booking/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo  BookingRepository
	resourceRepo ResourceRepository
	effects      SideEffects
	txManager    TransactionManager
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	resourceRepo ResourceRepository,
	effects SideEffects,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		resourceRepo: resourceRepo,
		effects:      effects,
		txManager:    txManager,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// SetTimeProvider подменяет источник времени (для тестов)
func (s *Service) SetTimeProvider(tp TimeProvider) {
	s.timeProvider = tp
}

// GetByID получает бронирование по ID.
// Видеть бронирование могут клиент и владелец ресурса.
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetBooking: fetching booking id=%d for user=%d", id, userID)

	booking, err := s.getBooking(ctx, "GetBooking", id)
	if err != nil {
		return nil, err
	}

	if booking.CustomerID != userID {
		if err := s.checkResourceManager(ctx, "GetBooking", booking.ResourceID, userID); err != nil {
			return nil, err
		}
	}

	return models.FromDomainBooking(booking), nil
}

// GetCustomerBookings получает историю бронирований клиента.
// Опционально фильтрует по статусу.
func (s *Service) GetCustomerBookings(ctx context.Context, req *models.GetCustomerBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetCustomerBookings: fetching bookings for customer=%d, status=%v", req.CustomerID, req.Status)

	if req.UserID != req.CustomerID {
		s.logger.Warn("GetCustomerBookings: access denied for user=%d to customer=%d", req.UserID, req.CustomerID)
		return nil, ErrAccessDenied
	}

	filter := domain.BookingsFilter{
		CustomerID:      &req.CustomerID,
		IncludeInactive: true,
	}
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetCustomerBookings: invalid status=%s for customer=%d", *req.Status, req.CustomerID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		filter.Status = &status
	}

	list, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("GetCustomerBookings: repository error for customer=%d: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: GetCustomerBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetCustomerBookings: fetched %d bookings for customer=%d", len(list), req.CustomerID)
	return models.FromDomainBookingList(list), nil
}

// GetResourceBookings получает бронирования ресурса с фильтрацией по периоду и статусу.
// Доступно только владельцу ресурса.
func (s *Service) GetResourceBookings(ctx context.Context, req *models.GetResourceBookingsRequest) (*models.BookingListResponse, error) {
	logMsg := fmt.Sprintf("GetResourceBookings: fetching bookings for resource=%d, user=%d", req.ResourceID, req.UserID)
	if req.From != nil && req.To != nil {
		logMsg += fmt.Sprintf(", period=%s to %s", req.From.Format(domain.DateFormat), req.To.Format(domain.DateFormat))
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	if req.IncludeCancelled {
		logMsg += ", includeCancelled=true"
	}
	s.logger.Info(logMsg)

	if err := s.checkResourceManager(ctx, "GetResourceBookings", req.ResourceID, req.UserID); err != nil {
		return nil, err
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetResourceBookings: invalid filter for resource=%d: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	list, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("GetResourceBookings: repository error for resource=%d: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: GetResourceBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetResourceBookings: fetched %d bookings for resource=%d", len(list), req.ResourceID)
	return models.FromDomainBookingList(list), nil
}

// Complete отмечает бронирование выполненным. Доступно только владельцу ресурса.
func (s *Service) Complete(ctx context.Context, bookingID, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("CompleteBooking: booking id=%d by user=%d", bookingID, userID)

	var result *domain.Booking
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := s.getBooking(txCtx, "CompleteBooking", bookingID)
		if err != nil {
			return err
		}

		if err := s.checkResourceManager(txCtx, "CompleteBooking", booking.ResourceID, userID); err != nil {
			return err
		}

		if !booking.CanBeCompleted() {
			s.logger.Warn("CompleteBooking: booking id=%d cannot be completed, status=%s", bookingID, booking.Status)
			return ErrCannotComplete
		}

		now := s.timeProvider.Now()
		if err := s.bookingRepo.Complete(txCtx, bookingID, now); err != nil {
			if errors.Is(err, bookingRepo.ErrInvalidTransition) {
				return ErrCannotComplete
			}
			s.logger.Error("CompleteBooking: repository error for booking id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: Complete - repository error: %v", ErrInternal, err)
		}

		booking.Status = domain.StatusCompleted
		booking.CompletedAt = &now
		booking.UpdatedAt = now
		result = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncBookings("completed")
	s.effects.BookingsCompleted(ctx, []*domain.Booking{result})

	s.logger.Info("CompleteBooking: booking id=%d completed", bookingID)
	return models.FromDomainBooking(result), nil
}

// CompleteEnded переводит в completed все scheduled бронирования, время которых прошло.
// Возвращает количество завершенных бронирований.
func (s *Service) CompleteEnded(ctx context.Context) (int, error) {
	completed, err := s.bookingRepo.CompleteEnded(ctx, s.timeProvider.Now())
	if err != nil {
		s.logger.Error("CompleteEnded: repository error: %v", err)
		return 0, fmt.Errorf("%w: CompleteEnded - repository error: %v", ErrInternal, err)
	}

	if len(completed) > 0 {
		for range completed {
			s.metrics.IncBookings("completed")
		}
		s.effects.BookingsCompleted(ctx, completed)
		s.logger.Info("CompleteEnded: %d bookings completed", len(completed))
	}
	return len(completed), nil
}

func (s *Service) getBooking(ctx context.Context, op string, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

// checkResourceManager проверяет, что пользователь управляет ресурсом
func (s *Service) checkResourceManager(ctx context.Context, op string, resourceID, userID int64) error {
	res, err := s.resourceRepo.GetByID(ctx, resourceID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			s.logger.Warn("%s: resource id=%d not found", op, resourceID)
			return ErrResourceNotFound
		}
		s.logger.Error("%s: repository error for resource id=%d: %v", op, resourceID, err)
		return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	if !res.IsManagedBy(userID) {
		s.logger.Warn("%s: access denied for user=%d to resource id=%d", op, userID, resourceID)
		return ErrAccessDenied
	}
	return nil
}
