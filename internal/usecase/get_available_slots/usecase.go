package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/inksync/studio-booking/internal/domain"
	offeringRepo "github.com/inksync/studio-booking/internal/infra/storage/offering"
	"github.com/inksync/studio-booking/internal/service/availability"
	"github.com/inksync/studio-booking/pkg/types"
)

// UseCase use case для подбора времени начала конкретной услуги
type UseCase struct {
	offeringRepo OfferingRepository
	availability Availability
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(offeringRepo OfferingRepository, availability Availability, logger Logger) *UseCase {
	return &UseCase{
		offeringRepo: offeringRepo,
		availability: availability,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// SetTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) SetTimeProvider(tp TimeProvider) {
	uc.timeProvider = tp
}

// Execute возвращает времена начала, с которых услуга помещается в свободное время мастера.
// Прошедшие времена отбрасываются.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetStartTimes: resource=%d, offering=%d, date=%s", req.ResourceID, req.OfferingID, req.Date)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetStartTimes: validation failed: %v", err)
		return nil, err
	}

	date, err := uc.availability.ParseDate(req.Date)
	if err != nil {
		uc.logger.Warn("GetStartTimes: invalid date %q: %v", req.Date, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}

	// 2. Получаем услугу
	offering, err := uc.offeringRepo.GetByID(ctx, req.OfferingID)
	if err != nil {
		if errors.Is(err, offeringRepo.ErrOfferingNotFound) {
			uc.logger.Warn("GetStartTimes: offering id=%d not found", req.OfferingID)
			return nil, ErrOfferingNotFound
		}
		uc.logger.Error("GetStartTimes: failed to get offering id=%d: %v", req.OfferingID, err)
		return nil, fmt.Errorf("%w: failed to get offering: %v", ErrInternal, err)
	}
	if !offering.BelongsTo(req.ResourceID) || !offering.IsActive {
		uc.logger.Warn("GetStartTimes: offering id=%d is not offered by resource id=%d", offering.ID, req.ResourceID)
		return nil, ErrOfferingMismatch
	}

	granularity := req.Granularity
	if granularity == 0 {
		granularity = domain.DefaultSlotGranularityMinutes
	}

	// 3. Сетка слотов дня
	slots, err := uc.availability.ComputeSlots(ctx, req.ResourceID, date, granularity)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrResourceNotFound):
			return nil, ErrResourceNotFound
		case errors.Is(err, availability.ErrInvalidInput):
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		uc.logger.Error("GetStartTimes: failed to compute slots for resource id=%d: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: failed to compute slots: %v", ErrInternal, err)
	}

	// 4. Времена начала внутри свободных интервалов
	step := time.Duration(granularity) * time.Minute
	candidates := startTimes(freeRuns(slots), offering.Duration(), step, uc.timeProvider.Now())

	loc := uc.availability.Location()
	resp := &Response{
		Date:            date.Format(domain.DateFormat),
		ResourceID:      req.ResourceID,
		OfferingID:      offering.ID,
		DurationMinutes: offering.DurationMinutes,
		StartTimes:      make([]StartTime, 0, len(candidates)),
	}
	for _, c := range candidates {
		resp.StartTimes = append(resp.StartTimes, StartTime{
			Start:     c.Start,
			End:       c.End,
			StartTime: types.NewTimeString(c.Start.In(loc)),
		})
	}

	uc.logger.Info("GetStartTimes: %d start times for resource=%d, offering=%d, date=%s",
		len(resp.StartTimes), req.ResourceID, offering.ID, resp.Date)
	return resp, nil
}
