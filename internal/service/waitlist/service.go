package waitlist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/inksync/studio-booking/internal/domain"
	resourceRepo "github.com/inksync/studio-booking/internal/infra/storage/resource"
	waitlistRepo "github.com/inksync/studio-booking/internal/infra/storage/waitlist"
	"github.com/inksync/studio-booking/internal/service/waitlist/models"
)

// Service лист ожидания
type Service struct {
	waitlistRepo WaitlistRepository
	resourceRepo ResourceRepository
	now          func() time.Time
	logger       Logger
}

// NewService создает новый экземпляр сервиса листа ожидания
func NewService(waitlistRepo WaitlistRepository, resourceRepo ResourceRepository, logger Logger) *Service {
	return &Service{
		waitlistRepo: waitlistRepo,
		resourceRepo: resourceRepo,
		now:          time.Now,
		logger:       logger,
	}
}

// SetClock подменяет источник времени (для тестов)
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Join добавляет клиента в лист ожидания
func (s *Service) Join(ctx context.Context, req *models.JoinWaitlistRequest) (*domain.WaitlistEntry, error) {
	s.logger.Info("JoinWaitlist: customer=%d, resource=%v", req.CustomerID, req.ResourceID)

	entry, err := req.ToDomain()
	if err != nil {
		s.logger.Warn("JoinWaitlist: invalid request from customer=%d: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if entry.ResourceID != nil {
		if err := s.checkResource(ctx, "JoinWaitlist", *entry.ResourceID); err != nil {
			return nil, err
		}
	}

	created, err := s.waitlistRepo.Create(ctx, entry)
	if err != nil {
		s.logger.Error("JoinWaitlist: repository error for customer=%d: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: Join - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("JoinWaitlist: entry id=%d created for customer=%d", created.ID, created.CustomerID)
	return created, nil
}

// Remove мягко удаляет заявку клиента
func (s *Service) Remove(ctx context.Context, entryID, customerID int64) error {
	s.logger.Info("RemoveWaitlistEntry: entry id=%d by customer=%d", entryID, customerID)

	entry, err := s.getOwned(ctx, "RemoveWaitlistEntry", entryID, customerID)
	if err != nil {
		return err
	}
	if !entry.IsActive {
		s.logger.Warn("RemoveWaitlistEntry: entry id=%d is already inactive", entryID)
		return ErrEntryInactive
	}

	if err := s.waitlistRepo.Deactivate(ctx, entryID, s.now(), nil); err != nil {
		return s.mapRepoError("RemoveWaitlistEntry", entryID, err)
	}

	s.logger.Info("RemoveWaitlistEntry: entry id=%d deactivated", entryID)
	return nil
}

// Update изменяет предпочтения активной заявки
func (s *Service) Update(ctx context.Context, entryID int64, req *models.UpdateWaitlistRequest) (*models.WaitlistEntryResponse, error) {
	s.logger.Info("UpdateWaitlistEntry: entry id=%d by customer=%d", entryID, req.CustomerID)

	upd, err := req.ToDomain()
	if err != nil {
		s.logger.Warn("UpdateWaitlistEntry: invalid request for entry id=%d: %v", entryID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	entry, err := s.getOwned(ctx, "UpdateWaitlistEntry", entryID, req.CustomerID)
	if err != nil {
		return nil, err
	}
	if !entry.IsActive {
		s.logger.Warn("UpdateWaitlistEntry: entry id=%d is inactive", entryID)
		return nil, ErrEntryInactive
	}

	if upd.ResourceID != nil && !upd.ClearResource {
		if err := s.checkResource(ctx, "UpdateWaitlistEntry", *upd.ResourceID); err != nil {
			return nil, err
		}
	}

	upd.Apply(entry)
	updated, err := s.waitlistRepo.Update(ctx, entry)
	if err != nil {
		return nil, s.mapRepoError("UpdateWaitlistEntry", entryID, err)
	}

	return models.FromDomainEntry(updated), nil
}

// ListByCustomer возвращает заявки клиента
func (s *Service) ListByCustomer(ctx context.Context, customerID int64, includeInactive bool) (*models.WaitlistListResponse, error) {
	entries, err := s.waitlistRepo.List(ctx, domain.WaitlistFilter{
		CustomerID:      &customerID,
		IncludeInactive: includeInactive,
	})
	if err != nil {
		s.logger.Error("ListCustomerWaitlist: repository error for customer=%d: %v", customerID, err)
		return nil, fmt.Errorf("%w: ListByCustomer - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainEntryList(entries), nil
}

// ListByResource возвращает заявки, адресованные мастеру, и заявки без предпочтения.
// Доступно только владельцу ресурса.
func (s *Service) ListByResource(ctx context.Context, resourceID, userID int64, includeInactive bool) (*models.WaitlistListResponse, error) {
	res, err := s.resourceRepo.GetByID(ctx, resourceID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			return nil, ErrResourceNotFound
		}
		s.logger.Error("ListResourceWaitlist: repository error for resource=%d: %v", resourceID, err)
		return nil, fmt.Errorf("%w: ListByResource - repository error: %v", ErrInternal, err)
	}
	if !res.IsManagedBy(userID) {
		s.logger.Warn("ListResourceWaitlist: access denied for user=%d to resource=%d", userID, resourceID)
		return nil, ErrAccessDenied
	}

	entries, err := s.waitlistRepo.List(ctx, domain.WaitlistFilter{
		ResourceID:         &resourceID,
		IncludeAnyResource: true,
		IncludeInactive:    includeInactive,
	})
	if err != nil {
		s.logger.Error("ListResourceWaitlist: repository error for resource=%d: %v", resourceID, err)
		return nil, fmt.Errorf("%w: ListByResource - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainEntryList(entries), nil
}

// FindPromotionCandidates возвращает активные заявки, которым подходит
// освободившееся время мастера: без предпочтения или с этим мастером, старые первыми.
// Интервал пока не сужает выборку: пожелания по датам хранятся свободным текстом.
func (s *Service) FindPromotionCandidates(ctx context.Context, resourceID int64, opened domain.Interval) ([]*domain.WaitlistEntry, error) {
	entries, err := s.waitlistRepo.List(ctx, domain.WaitlistFilter{
		ResourceID:         &resourceID,
		IncludeAnyResource: true,
	})
	if err != nil {
		s.logger.Error("FindPromotionCandidates: repository error for resource=%d: %v", resourceID, err)
		return nil, fmt.Errorf("%w: FindPromotionCandidates - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("FindPromotionCandidates: resource=%d, opened %s - %s, candidates=%d",
		resourceID, opened.Start.Format(time.RFC3339), opened.End.Format(time.RFC3339), len(entries))
	return entries, nil
}

func (s *Service) getOwned(ctx context.Context, op string, entryID, customerID int64) (*domain.WaitlistEntry, error) {
	entry, err := s.waitlistRepo.GetByID(ctx, entryID)
	if err != nil {
		return nil, s.mapRepoError(op, entryID, err)
	}
	if !entry.IsOwnedBy(customerID) {
		s.logger.Warn("%s: access denied for customer=%d to entry id=%d", op, customerID, entryID)
		return nil, ErrAccessDenied
	}
	return entry, nil
}

func (s *Service) checkResource(ctx context.Context, op string, resourceID int64) error {
	if _, err := s.resourceRepo.GetByID(ctx, resourceID); err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			s.logger.Warn("%s: resource id=%d not found", op, resourceID)
			return ErrResourceNotFound
		}
		s.logger.Error("%s: repository error for resource id=%d: %v", op, resourceID, err)
		return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return nil
}

func (s *Service) mapRepoError(op string, entryID int64, err error) error {
	switch {
	case errors.Is(err, waitlistRepo.ErrEntryNotFound):
		s.logger.Warn("%s: entry id=%d not found", op, entryID)
		return ErrEntryNotFound
	case errors.Is(err, waitlistRepo.ErrEntryInactive):
		s.logger.Warn("%s: entry id=%d is inactive", op, entryID)
		return ErrEntryInactive
	default:
		s.logger.Error("%s: repository error for entry id=%d: %v", op, entryID, err)
		return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
}
