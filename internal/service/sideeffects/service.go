package sideeffects

import (
	"context"
	"fmt"
	"time"

	"github.com/inksync/studio-booking/internal/domain"
	"github.com/inksync/studio-booking/internal/infra/events"
	"github.com/inksync/studio-booking/internal/integrations/advisor"
	"github.com/inksync/studio-booking/internal/integrations/calendar"
	"github.com/inksync/studio-booking/internal/integrations/notifier"
	"github.com/inksync/studio-booking/pkg/ptr"
)

// Service побочные эффекты операций с бронированиями.
//
// Все методы вызываются только после фиксации транзакции.
// Инвалидация кэша выполняется сразу, чтобы следующие запросы видели изменения,
// остальное (календарь, уведомления, лист ожидания, события) уходит в диспетчер.
type Service struct {
	dispatcher  Dispatcher
	calendar    CalendarAdapter
	bookingRepo BookingRepository
	candidates  CandidateFinder
	sender      Sender
	advisor     Advisor
	templates   *notifier.Templates
	cache       AvailabilityCache
	publisher   EventPublisher
	logger      Logger
}

// NewService создает сервис побочных эффектов
func NewService(
	dispatcher Dispatcher,
	calendarAdapter CalendarAdapter,
	bookingRepo BookingRepository,
	candidates CandidateFinder,
	sender Sender,
	advisorClient Advisor,
	templates *notifier.Templates,
	cache AvailabilityCache,
	publisher EventPublisher,
	logger Logger,
) *Service {
	return &Service{
		dispatcher:  dispatcher,
		calendar:    calendarAdapter,
		bookingRepo: bookingRepo,
		candidates:  candidates,
		sender:      sender,
		advisor:     advisorClient,
		templates:   templates,
		cache:       cache,
		publisher:   publisher,
		logger:      logger,
	}
}

// BookingCreated зеркалирует бронирование в календарь и отправляет подтверждение
func (s *Service) BookingCreated(ctx context.Context, b *domain.Booking, resource *domain.Resource) {
	s.invalidate(ctx, b.ResourceID)

	booking, res := *b, *resource
	s.dispatcher.Submit("calendar.create", func(ctx context.Context) error {
		return s.mirrorCreate(ctx, &booking, &res)
	})
	s.dispatcher.Submit("notify.confirmation", func(ctx context.Context) error {
		return s.sender.Send(ctx, s.templates.BookingConfirmation(&booking, res.Name))
	})
	s.publish(events.TypeBookingCreated, booking.ResourceID, booking.ID)
}

// BookingCancelled удаляет зеркальное событие, уведомляет клиента
// и запускает поиск кандидатов из листа ожидания на освободившееся время
func (s *Service) BookingCancelled(ctx context.Context, b *domain.Booking, resource *domain.Resource) {
	s.invalidate(ctx, b.ResourceID)

	booking, res := *b, *resource
	if booking.ExternalEventID != nil {
		eventID := *booking.ExternalEventID
		s.dispatcher.Submit("calendar.delete", func(ctx context.Context) error {
			if err := s.calendar.DeleteEvent(ctx, &res, eventID); err != nil {
				return err
			}
			return s.bookingRepo.SetExternalEventID(ctx, booking.ID, nil)
		})
	}
	s.dispatcher.Submit("notify.cancelled", func(ctx context.Context) error {
		return s.sender.Send(ctx, s.templates.BookingCancelled(&booking, res.Name))
	})
	s.dispatcher.Submit("waitlist.promotion_scan", func(ctx context.Context) error {
		return s.promotionScan(ctx, &res, booking.Interval())
	})
	s.publish(events.TypeBookingCancelled, booking.ResourceID, booking.ID)
}

// BookingRescheduled переносит зеркальное событие и уведомляет клиента.
// Старый интервал освободился, поэтому тоже запускается поиск кандидатов.
func (s *Service) BookingRescheduled(ctx context.Context, b *domain.Booking, resource *domain.Resource, previous domain.Interval) {
	s.invalidate(ctx, b.ResourceID)

	booking, res := *b, *resource
	if booking.ExternalEventID != nil {
		eventID := *booking.ExternalEventID
		s.dispatcher.Submit("calendar.update", func(ctx context.Context) error {
			return s.calendar.UpdateEvent(ctx, &res, eventID, booking.Interval(), eventMetadata(&booking, &res))
		})
	}
	s.dispatcher.Submit("notify.rescheduled", func(ctx context.Context) error {
		return s.sender.Send(ctx, s.templates.BookingRescheduled(&booking, res.Name, previous.Start))
	})
	s.dispatcher.Submit("waitlist.promotion_scan", func(ctx context.Context) error {
		return s.promotionScan(ctx, &res, previous)
	})
	s.publish(events.TypeBookingRescheduled, booking.ResourceID, booking.ID)
}

// BookingsCompleted сбрасывает кэш ресурсов и публикует события завершения
func (s *Service) BookingsCompleted(ctx context.Context, bookings []*domain.Booking) {
	seen := make(map[int64]struct{})
	for _, b := range bookings {
		if _, ok := seen[b.ResourceID]; !ok {
			seen[b.ResourceID] = struct{}{}
			s.invalidate(ctx, b.ResourceID)
		}
		s.publish(events.TypeBookingCompleted, b.ResourceID, b.ID)
	}
}

// ResourceChanged сбрасывает кэш доступности ресурса
func (s *Service) ResourceChanged(ctx context.Context, resourceID int64) {
	s.invalidate(ctx, resourceID)
}

// ResourceOpened мастер снова принимает записи: уведомляет кандидатов из листа ожидания
func (s *Service) ResourceOpened(ctx context.Context, resource *domain.Resource) {
	s.invalidate(ctx, resource.ID)

	res := *resource
	s.dispatcher.Submit("waitlist.new_availability", func(ctx context.Context) error {
		entries, err := s.candidates.FindPromotionCandidates(ctx, res.ID, domain.Interval{})
		if err != nil {
			return fmt.Errorf("find candidates for resource %d: %w", res.ID, err)
		}
		for _, e := range entries {
			if err := s.sender.Send(ctx, s.templates.NewAvailability(e, res.Name)); err != nil {
				s.logger.Warn("ResourceOpened: notify entry id=%d failed: %v", e.ID, err)
			}
		}
		s.logger.Info("ResourceOpened: resource=%d, notified %d waitlist entries", res.ID, len(entries))
		return nil
	})
	s.publish(events.TypeResourceOpened, res.ID, 0)
}

// WaitlistJoined отправляет подтверждение записи в лист ожидания.
// Пустой message запрашивается у советника в фоне.
func (s *Service) WaitlistJoined(_ context.Context, e *domain.WaitlistEntry, message string) {
	entry := *e
	s.dispatcher.Submit("notify.waitlist_joined", func(ctx context.Context) error {
		msg := message
		if msg == "" {
			var err error
			if msg, err = s.advisor.WaitlistMessage(ctx, PreferencesOf(&entry)); err != nil {
				return err
			}
		}
		return s.sender.Send(ctx, s.templates.WaitlistJoined(&entry, msg))
	})
}

func (s *Service) mirrorCreate(ctx context.Context, b *domain.Booking, res *domain.Resource) error {
	eventID, err := s.calendar.CreateEvent(ctx, res, b.Interval(), eventMetadata(b, res))
	if err != nil {
		return err
	}
	if eventID == "" {
		return nil
	}

	if err := s.bookingRepo.SetExternalEventID(ctx, b.ID, &eventID); err != nil {
		return fmt.Errorf("store event id for booking %d: %w", b.ID, err)
	}

	// Бронирование могли отменить, пока событие создавалось
	current, err := s.bookingRepo.GetByID(ctx, b.ID)
	if err != nil {
		return fmt.Errorf("reload booking %d: %w", b.ID, err)
	}
	if current.Status == domain.StatusCancelled {
		if err := s.calendar.DeleteEvent(ctx, res, eventID); err != nil {
			return err
		}
		return s.bookingRepo.SetExternalEventID(ctx, b.ID, nil)
	}
	return nil
}

func (s *Service) promotionScan(ctx context.Context, res *domain.Resource, opened domain.Interval) error {
	if !res.IsAvailable {
		return nil
	}

	entries, err := s.candidates.FindPromotionCandidates(ctx, res.ID, opened)
	if err != nil {
		return fmt.Errorf("find candidates for resource %d: %w", res.ID, err)
	}

	for _, e := range entries {
		if err := s.sender.Send(ctx, s.templates.WaitlistOpening(e, res.Name, opened)); err != nil {
			s.logger.Warn("PromotionScan: notify entry id=%d failed: %v", e.ID, err)
		}
	}

	s.logger.Info("PromotionScan: resource=%d, interval %s - %s, %d candidates",
		res.ID, opened.Start.Format(time.RFC3339), opened.End.Format(time.RFC3339), len(entries))
	return nil
}

func (s *Service) invalidate(ctx context.Context, resourceID int64) {
	if err := s.cache.Invalidate(ctx, resourceID); err != nil {
		s.logger.Warn("SideEffects: cache invalidation for resource=%d failed: %v", resourceID, err)
	}
}

func (s *Service) publish(eventType string, resourceID, bookingID int64) {
	ev := events.NewEvent(eventType, resourceID, bookingID)
	s.dispatcher.Submit("events.publish", func(ctx context.Context) error {
		return s.publisher.Publish(ctx, ev)
	})
}

func eventMetadata(b *domain.Booking, res *domain.Resource) calendar.EventMetadata {
	return calendar.EventMetadata{
		Title:       fmt.Sprintf("%s: %s", res.Name, b.OfferingName),
		Description: ptr.Deref(b.Notes, ""),
		BookingID:   b.ID,
		CustomerID:  b.CustomerID,
	}
}

// PreferencesOf пожелания заявки для советника
func PreferencesOf(e *domain.WaitlistEntry) advisor.Preferences {
	return advisor.Preferences{
		Style:          string(e.Style),
		Size:           string(e.Size),
		PreferredDates: e.PreferredDates,
		Budget:         string(e.Budget),
		Description:    e.Description,
	}
}
