package recommend_resource

import (
	"context"
	"fmt"

	"github.com/inksync/studio-booking/internal/domain"
	"github.com/inksync/studio-booking/internal/integrations/advisor"
	"github.com/inksync/studio-booking/internal/service/resources/models"
	"github.com/inksync/studio-booking/pkg/ptr"
)

// UseCase подбор мастера под пожелания клиента
type UseCase struct {
	resourceRepo ResourceRepository
	advisor      Advisor
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(resourceRepo ResourceRepository, advisorClient Advisor, logger Logger) *UseCase {
	return &UseCase{
		resourceRepo: resourceRepo,
		advisor:      advisorClient,
		logger:       logger,
	}
}

// Execute рекомендует одного из мастеров, принимающих записи
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	prefs, err := parsePreferences(req)
	if err != nil {
		uc.logger.Warn("RecommendResource: invalid preferences: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	resources, err := uc.resourceRepo.List(ctx, true)
	if err != nil {
		uc.logger.Error("RecommendResource: repository error: %v", err)
		return nil, fmt.Errorf("%w: failed to list resources: %v", ErrInternal, err)
	}

	byID := make(map[int64]*domain.Resource, len(resources))
	summaries := make([]advisor.ResourceSummary, 0, len(resources))
	for _, r := range resources {
		byID[r.ID] = r
		summaries = append(summaries, advisor.ResourceSummary{
			ID:          r.ID,
			Name:        r.Name,
			Specialty:   r.Specialty,
			Bio:         ptr.Deref(r.Bio, ""),
			IsAvailable: r.IsAvailable,
		})
	}

	rec, err := uc.advisor.Recommend(ctx, summaries, prefs)
	if err != nil || rec == nil {
		uc.logger.Warn("RecommendResource: advisor unavailable: %v", err)
		return &Response{}, nil
	}

	resp := &Response{Message: rec.Message}
	if rec.ResourceID != nil {
		if r, ok := byID[*rec.ResourceID]; ok {
			resp.Resource = models.FromDomainResource(r)
		}
	}

	uc.logger.Info("RecommendResource: style=%s, recommended=%v", prefs.Style, rec.ResourceID)
	return resp, nil
}

// parsePreferences нормализует значения перечислений, неизвестные отклоняет
func parsePreferences(req *Request) (advisor.Preferences, error) {
	style, err := domain.ParseTattooStyle(req.Style)
	if err != nil {
		return advisor.Preferences{}, err
	}
	size, err := domain.ParseSizeClass(req.Size)
	if err != nil {
		return advisor.Preferences{}, err
	}
	budget, err := domain.ParseBudgetBracket(req.Budget)
	if err != nil {
		return advisor.Preferences{}, err
	}
	if len([]rune(req.Description)) > domain.MaxWaitlistDescriptionLength {
		return advisor.Preferences{}, fmt.Errorf("description must be at most %d characters", domain.MaxWaitlistDescriptionLength)
	}

	return advisor.Preferences{
		Style:          string(style),
		Size:           string(size),
		PreferredDates: req.PreferredDates,
		Budget:         string(budget),
		Description:    req.Description,
	}, nil
}
