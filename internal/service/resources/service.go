package resources

import (
	"context"
	"errors"
	"fmt"

	"github.com/inksync/studio-booking/internal/domain"
	offeringRepo "github.com/inksync/studio-booking/internal/infra/storage/offering"
	resourceRepo "github.com/inksync/studio-booking/internal/infra/storage/resource"
	"github.com/inksync/studio-booking/internal/service/resources/models"
	"github.com/inksync/studio-booking/pkg/ptr"
)

// Service справочник ресурсов (мастеров) и их услуг
type Service struct {
	resourceRepo ResourceRepository
	offeringRepo OfferingRepository
	effects      SideEffects
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса
func NewService(
	resourceRepo ResourceRepository,
	offeringRepo OfferingRepository,
	effects SideEffects,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		resourceRepo: resourceRepo,
		offeringRepo: offeringRepo,
		effects:      effects,
		txManager:    txManager,
		logger:       logger,
	}
}

// List возвращает ресурсы студии
func (s *Service) List(ctx context.Context, onlyAvailable bool) (*models.ResourceListResponse, error) {
	list, err := s.resourceRepo.List(ctx, onlyAvailable)
	if err != nil {
		s.logger.Error("ListResources: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainResourceList(list), nil
}

// Get возвращает ресурс по ID
func (s *Service) Get(ctx context.Context, id int64) (*models.ResourceResponse, error) {
	res, err := s.getResource(ctx, "GetResource", id)
	if err != nil {
		return nil, err
	}
	return models.FromDomainResource(res), nil
}

// Create создает ресурс. Пользователь, создавший ресурс, становится его владельцем.
func (s *Service) Create(ctx context.Context, req *models.CreateResourceRequest) (*models.ResourceResponse, error) {
	s.logger.Info("CreateResource: user=%d, name=%q", req.UserID, req.Name)

	res := &domain.Resource{
		UserID:       req.UserID,
		Name:         req.Name,
		Specialty:    req.Specialty,
		Bio:          req.Bio,
		IsAvailable:  ptr.Deref(req.IsAvailable, true),
		CalendarID:   req.CalendarID,
		WorkingHours: domain.DefaultWorkingHours(),
	}
	if req.CalendarID != nil && *req.CalendarID == "" {
		res.CalendarID = nil
	}
	if req.WorkingHours != nil {
		hours, err := req.WorkingHours.ToDomain()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		res.WorkingHours = hours
	}

	if err := validateResource(res); err != nil {
		s.logger.Warn("CreateResource: validation failed: %v", err)
		return nil, err
	}

	var created *domain.Resource
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		created, err = s.resourceRepo.Create(txCtx, res)
		return err
	})
	if err != nil {
		s.logger.Error("CreateResource: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateResource: created resource id=%d", created.ID)
	return models.FromDomainResource(created), nil
}

// Update обновляет профиль ресурса. Доступно только владельцу.
// Включение флага доступности уведомляет кандидатов из листа ожидания.
func (s *Service) Update(ctx context.Context, id int64, req *models.UpdateResourceRequest) (*models.ResourceResponse, error) {
	s.logger.Info("UpdateResource: resource=%d, user=%d", id, req.UserID)

	update := req.ToDomain()
	if update.IsEmpty() {
		return nil, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}

	var (
		updated   *domain.Resource
		wasClosed bool
	)
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		res, err := s.getResource(txCtx, "UpdateResource", id)
		if err != nil {
			return err
		}
		if !res.IsManagedBy(req.UserID) {
			s.logger.Warn("UpdateResource: access denied for user=%d to resource id=%d", req.UserID, id)
			return ErrAccessDenied
		}

		wasClosed = !res.IsAvailable
		update.Apply(res)
		if err := validateResource(res); err != nil {
			return err
		}

		updated, err = s.resourceRepo.Update(txCtx, res)
		if err != nil {
			s.logger.Error("UpdateResource: repository error for resource id=%d: %v", id, err)
			return fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if wasClosed && updated.IsAvailable {
		s.effects.ResourceOpened(ctx, updated)
	} else {
		s.effects.ResourceChanged(ctx, updated.ID)
	}

	s.logger.Info("UpdateResource: resource id=%d updated, available=%t", id, updated.IsAvailable)
	return models.FromDomainResource(updated), nil
}

// SetWorkingHours перезаписывает недельный шаблон рабочих часов. Доступно только владельцу.
// Существующие бронирования не переносятся.
func (s *Service) SetWorkingHours(ctx context.Context, id, userID int64, hours *models.WorkingHoursDTO) (*models.ResourceResponse, error) {
	s.logger.Info("SetWorkingHours: resource=%d, user=%d", id, userID)

	wh, err := hours.ToDomain()
	if err != nil {
		s.logger.Warn("SetWorkingHours: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var res *domain.Resource
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		res, err = s.getResource(txCtx, "SetWorkingHours", id)
		if err != nil {
			return err
		}
		if !res.IsManagedBy(userID) {
			s.logger.Warn("SetWorkingHours: access denied for user=%d to resource id=%d", userID, id)
			return ErrAccessDenied
		}
		if err := s.resourceRepo.SetWorkingHours(txCtx, id, wh); err != nil {
			s.logger.Error("SetWorkingHours: repository error for resource id=%d: %v", id, err)
			return fmt.Errorf("%w: SetWorkingHours - repository error: %v", ErrInternal, err)
		}
		res.WorkingHours = wh
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.effects.ResourceChanged(ctx, id)
	return models.FromDomainResource(res), nil
}

// ListOfferings возвращает услуги ресурса
func (s *Service) ListOfferings(ctx context.Context, resourceID int64, includeInactive bool) (*models.OfferingListResponse, error) {
	if _, err := s.getResource(ctx, "ListOfferings", resourceID); err != nil {
		return nil, err
	}

	list, err := s.offeringRepo.ListByResource(ctx, resourceID, includeInactive)
	if err != nil {
		s.logger.Error("ListOfferings: repository error for resource id=%d: %v", resourceID, err)
		return nil, fmt.Errorf("%w: ListOfferings - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainOfferingList(list), nil
}

// CreateOffering добавляет услугу ресурсу. Доступно только владельцу.
func (s *Service) CreateOffering(ctx context.Context, resourceID int64, req *models.CreateOfferingRequest) (*models.OfferingResponse, error) {
	s.logger.Info("CreateOffering: resource=%d, user=%d, name=%q", resourceID, req.UserID, req.Name)

	offering := &domain.ServiceOffering{
		ResourceID:      resourceID,
		Name:            req.Name,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
		IsActive:        true,
	}
	if err := validateOffering(offering); err != nil {
		s.logger.Warn("CreateOffering: validation failed: %v", err)
		return nil, err
	}

	res, err := s.getResource(ctx, "CreateOffering", resourceID)
	if err != nil {
		return nil, err
	}
	if !res.IsManagedBy(req.UserID) {
		s.logger.Warn("CreateOffering: access denied for user=%d to resource id=%d", req.UserID, resourceID)
		return nil, ErrAccessDenied
	}

	created, err := s.offeringRepo.Create(ctx, offering)
	if err != nil {
		if errors.Is(err, offeringRepo.ErrResourceNotFound) {
			return nil, ErrResourceNotFound
		}
		s.logger.Error("CreateOffering: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateOffering - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateOffering: created offering id=%d", created.ID)
	return models.FromDomainOffering(created), nil
}

// UpdateOffering изменяет или деактивирует услугу. Доступно только владельцу ресурса.
// Деактивированную услугу нельзя забронировать, история бронирований сохраняется.
func (s *Service) UpdateOffering(ctx context.Context, offeringID int64, req *models.UpdateOfferingRequest) (*models.OfferingResponse, error) {
	s.logger.Info("UpdateOffering: offering=%d, user=%d", offeringID, req.UserID)

	offering, err := s.offeringRepo.GetByID(ctx, offeringID)
	if err != nil {
		if errors.Is(err, offeringRepo.ErrOfferingNotFound) {
			s.logger.Warn("UpdateOffering: offering id=%d not found", offeringID)
			return nil, ErrOfferingNotFound
		}
		s.logger.Error("UpdateOffering: repository error for offering id=%d: %v", offeringID, err)
		return nil, fmt.Errorf("%w: UpdateOffering - repository error: %v", ErrInternal, err)
	}

	res, err := s.getResource(ctx, "UpdateOffering", offering.ResourceID)
	if err != nil {
		return nil, err
	}
	if !res.IsManagedBy(req.UserID) {
		s.logger.Warn("UpdateOffering: access denied for user=%d to offering id=%d", req.UserID, offeringID)
		return nil, ErrAccessDenied
	}

	req.ToDomain().Apply(offering)
	if err := validateOffering(offering); err != nil {
		return nil, err
	}

	updated, err := s.offeringRepo.Update(ctx, offering)
	if err != nil {
		if errors.Is(err, offeringRepo.ErrOfferingNotFound) {
			return nil, ErrOfferingNotFound
		}
		s.logger.Error("UpdateOffering: repository error for offering id=%d: %v", offeringID, err)
		return nil, fmt.Errorf("%w: UpdateOffering - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainOffering(updated), nil
}

// Styles возвращает каталог стилей
func (s *Service) Styles() *models.StyleListResponse {
	return models.FromStyleCatalog(domain.StyleCatalog)
}

func (s *Service) getResource(ctx context.Context, op string, id int64) (*domain.Resource, error) {
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
