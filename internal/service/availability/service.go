package availability

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"math"
	"time"

	"github.com/inksync/studio-booking/internal/domain"
	resourceRepo "github.com/inksync/studio-booking/internal/infra/storage/resource"
	"github.com/inksync/studio-booking/internal/service/availability/models"
)

// Config параметры расчета доступности
type Config struct {
	Location           *time.Location
	LimitedThreshold   float64
	DefaultGranularity int
	MaxRangeDays       int
}

// Service калькулятор доступности ресурса.
// Читает только зафиксированное состояние и никогда не блокирует записи.
type Service struct {
	resourceRepo ResourceRepository
	bookingRepo  BookingRepository
	calendar     CalendarAdapter
	cache        DayCache
	cfg          Config
	logger       Logger
}

// NewService создает новый экземпляр сервиса
func NewService(
	resourceRepo ResourceRepository,
	bookingRepo BookingRepository,
	calendarAdapter CalendarAdapter,
	cache DayCache,
	cfg Config,
	logger Logger,
) *Service {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.LimitedThreshold <= 0 {
		cfg.LimitedThreshold = domain.DefaultLimitedThreshold
	}
	if cfg.DefaultGranularity <= 0 {
		cfg.DefaultGranularity = domain.DefaultSlotGranularityMinutes
	}
	if cfg.MaxRangeDays <= 0 {
		cfg.MaxRangeDays = domain.DefaultMaxRangeDays
	}
	return &Service{
		resourceRepo: resourceRepo,
		bookingRepo:  bookingRepo,
		calendar:     calendarAdapter,
		cache:        cache,
		cfg:          cfg,
		logger:       logger,
	}
}

// Location часовой пояс студии
func (s *Service) Location() *time.Location {
	return s.cfg.Location
}

// GetAvailability доступность по дням для HTTP слоя
func (s *Service) GetAvailability(ctx context.Context, req *models.GetAvailabilityRequest) (*models.AvailabilityResponse, error) {
	from, err := s.ParseDate(req.From)
	if err != nil {
		return nil, fmt.Errorf("%w: from: %v", ErrInvalidInput, err)
	}
	to, err := s.ParseDate(req.To)
	if err != nil {
		return nil, fmt.Errorf("%w: to: %v", ErrInvalidInput, err)
	}

	days, err := s.ComputeDayAvailability(ctx, req.ResourceID, from, to)
	if err != nil {
		return nil, err
	}
	return models.FromDomainDays(req.ResourceID, from, to, days), nil
}

// GetSlots слоты на дату для HTTP слоя
func (s *Service) GetSlots(ctx context.Context, req *models.GetSlotsRequest) (*models.SlotsResponse, error) {
	date, err := s.ParseDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: date: %v", ErrInvalidInput, err)
	}

	granularity := req.Granularity
	if granularity == 0 {
		granularity = s.cfg.DefaultGranularity
	}

	slots, err := s.ComputeSlots(ctx, req.ResourceID, date, granularity)
	if err != nil {
		return nil, err
	}
	return models.FromDomainSlots(req.ResourceID, date, granularity, slots, s.cfg.Location), nil
}

// ComputeDayAvailability возвращает по одному DayAvailability на каждый день [from, to] по возрастанию
func (s *Service) ComputeDayAvailability(ctx context.Context, resourceID int64, from, to time.Time) ([]domain.DayAvailability, error) {
	from, to = s.dayStart(from), s.dayStart(to)
	if err := s.validateRange(from, to); err != nil {
		s.logger.Warn("ComputeDayAvailability: resource=%d: %v", resourceID, err)
		return nil, err
	}

	// Неизвестный ресурс не кэшируется
	if _, err := s.loadResource(ctx, "ComputeDayAvailability", resourceID); err != nil {
		return nil, err
	}

	return s.cache.GetOrLoadDays(ctx, resourceID, from, to, func(ctx context.Context) ([]domain.DayAvailability, error) {
		days := make([]domain.DayAvailability, 0, daysBetween(from, to)+1)
		for day, err := range s.Days(ctx, resourceID, from, to) {
			if err != nil {
				return nil, err
			}
			days = append(days, day)
		}
		return days, nil
	})
}

// Days ленивая последовательность доступности по дням.
// Каждый проход заново читает состояние, поэтому последовательность можно перезапускать.
func (s *Service) Days(ctx context.Context, resourceID int64, from, to time.Time) iter.Seq2[domain.DayAvailability, error] {
	from, to = s.dayStart(from), s.dayStart(to)

	return func(yield func(domain.DayAvailability, error) bool) {
		if err := s.validateRange(from, to); err != nil {
			yield(domain.DayAvailability{}, err)
			return
		}

		res, err := s.loadResource(ctx, "Days", resourceID)
		if err != nil {
			yield(domain.DayAvailability{}, err)
			return
		}

		occupied, err := s.occupied(ctx, res, domain.Interval{Start: from, End: to.AddDate(0, 0, 1)})
		if err != nil {
			yield(domain.DayAvailability{}, err)
			return
		}

		for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
			if !yield(s.classify(res, day, occupied), nil) {
				return
			}
		}
	}
}

// ComputeSlots возвращает слоты фиксированного шага, покрывающие рабочее окно дня.
// Слот, конец которого выходит за закрытие, не включается.
func (s *Service) ComputeSlots(ctx context.Context, resourceID int64, date time.Time, granularity int) ([]domain.Slot, error) {
	if granularity < domain.MinSlotGranularityMinutes || granularity > domain.MaxSlotGranularityMinutes {
		return nil, fmt.Errorf("%w: granularity must be in %d..%d minutes",
			ErrInvalidInput, domain.MinSlotGranularityMinutes, domain.MaxSlotGranularityMinutes)
	}

	res, err := s.loadResource(ctx, "ComputeSlots", resourceID)
	if err != nil {
		return nil, err
	}

	date = s.dayStart(date)
	window, ok := res.WorkingHours.ForDay(date.Weekday()).Window(date, s.cfg.Location)
	if !ok {
		return []domain.Slot{}, nil
	}

	occupied, err := s.occupied(ctx, res, window)
	if err != nil {
		return nil, err
	}

	step := time.Duration(granularity) * time.Minute
	slots := make([]domain.Slot, 0, window.Minutes()/granularity)
	for start := window.Start; !start.Add(step).After(window.End); start = start.Add(step) {
		slot := domain.Interval{Start: start, End: start.Add(step)}
		slots = append(slots, domain.Slot{
			Start:       slot.Start,
			End:         slot.End,
			IsAvailable: res.IsAvailable && !slot.OverlapsAny(occupied),
		})
	}

	return slots, nil
}

// OpenDates возвращает даты из [from, from+days), в которые ресурс не unavailable
func (s *Service) OpenDates(ctx context.Context, resourceID int64, from time.Time, days int) ([]time.Time, error) {
	if days <= 0 {
		return nil, nil
	}
	from = s.dayStart(from)

	var out []time.Time
	for day, err := range s.Days(ctx, resourceID, from, from.AddDate(0, 0, days-1)) {
		if err != nil {
			return nil, err
		}
		if day.Status != domain.DayUnavailable {
			out = append(out, day.Date)
		}
	}
	return out, nil
}

// ExternalBusy возвращает занятые интервалы внешнего календаря, не являющиеся
// зеркалами собственных бронирований. Ошибки календаря логируются, результат пустой.
func (s *Service) ExternalBusy(ctx context.Context, res *domain.Resource, window domain.Interval) ([]domain.Interval, error) {
	bookings, err := s.bookingRepo.List(ctx, domain.BookingsFilter{
		ResourceID:      &res.ID,
		From:            &window.Start,
		To:              &window.End,
		IncludeInactive: true,
	})
	if err != nil {
		s.logger.Error("ExternalBusy: failed to list bookings for resource=%d: %v", res.ID, err)
		return nil, fmt.Errorf("%w: ExternalBusy - repository error: %v", ErrInternal, err)
	}
	return s.externalBusy(ctx, res, window, ownEventIDs(bookings)), nil
}

// ParseDate разбирает дату YYYY-MM-DD в часовом поясе студии
func (s *Service) ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(domain.DateFormat, value, s.cfg.Location)
}

func (s *Service) classify(res *domain.Resource, day time.Time, occupied []domain.Interval) domain.DayAvailability {
	result := domain.DayAvailability{Date: day, Status: domain.DayUnavailable}

	window, ok := res.WorkingHours.ForDay(day.Weekday()).Window(day, s.cfg.Location)
	if !ok {
		return result
	}

	result.WorkingMinutes = window.Minutes()
	result.OccupiedMinutes = domain.TotalMinutes(domain.ClipAndMerge(window, occupied))
	result.Status = domain.ClassifyDay(result.WorkingMinutes, result.OccupiedMinutes, s.cfg.LimitedThreshold, res.IsAvailable)
	return result
}

// occupied объединение активных бронирований и занятости внешнего календаря в окне
func (s *Service) occupied(ctx context.Context, res *domain.Resource, window domain.Interval) ([]domain.Interval, error) {
	bookings, err := s.bookingRepo.List(ctx, domain.BookingsFilter{
		ResourceID:      &res.ID,
		From:            &window.Start,
		To:              &window.End,
		IncludeInactive: true,
	})
	if err != nil {
		s.logger.Error("Availability: failed to list bookings for resource=%d: %v", res.ID, err)
		return nil, fmt.Errorf("%w: failed to list bookings: %v", ErrInternal, err)
	}

	intervals := make([]domain.Interval, 0, len(bookings))
	for _, b := range bookings {
		if b.IsActive() {
			intervals = append(intervals, b.Interval())
		}
	}
	intervals = append(intervals, s.externalBusy(ctx, res, window, ownEventIDs(bookings))...)

	return domain.MergeIntervals(intervals), nil
}

func (s *Service) externalBusy(ctx context.Context, res *domain.Resource, window domain.Interval, own map[string]struct{}) []domain.Interval {
	busy, err := s.calendar.GetBusyIntervals(ctx, res, window.Start, window.End)
	if err != nil {
		s.logger.Warn("Availability: calendar unavailable for resource=%d, ignoring external busy intervals: %v", res.ID, err)
		return nil
	}

	out := make([]domain.Interval, 0, len(busy))
	for _, b := range busy {
		if _, mirrored := own[b.EventID]; mirrored && b.EventID != "" {
			continue
		}
		out = append(out, domain.Interval{Start: b.Start, End: b.End})
	}
	return out
}

func (s *Service) loadResource(ctx context.Context, op string, id int64) (*domain.Resource, error) {
	res, err := s.resourceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			s.logger.Warn("%s: resource id=%d not found", op, id)
			return nil, ErrResourceNotFound
		}
		s.logger.Error("%s: repository error for resource id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return res, nil
}

func (s *Service) validateRange(from, to time.Time) error {
	if to.Before(from) {
		return fmt.Errorf("%w: to %s is before from %s", ErrInvalidInput,
			to.Format(domain.DateFormat), from.Format(domain.DateFormat))
	}
	if daysBetween(from, to)+1 > s.cfg.MaxRangeDays {
		return fmt.Errorf("%w: range is longer than %d days", ErrInvalidInput, s.cfg.MaxRangeDays)
	}
	return nil
}

func (s *Service) dayStart(t time.Time) time.Time {
	y, m, d := t.In(s.cfg.Location).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, s.cfg.Location)
}

// daysBetween число суток между полуночами, округление сглаживает переходы на летнее время
func daysBetween(from, to time.Time) int {
	return int(math.Round(to.Sub(from).Hours() / 24))
}

func ownEventIDs(bookings []*domain.Booking) map[string]struct{} {
	own := make(map[string]struct{})
	for _, b := range bookings {
		if b.ExternalEventID != nil {
			own[*b.ExternalEventID] = struct{}{}
		}
	}
	return own
}
