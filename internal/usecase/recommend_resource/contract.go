package recommend_resource

import (
	"context"

	"github.com/inksync/studio-booking/internal/domain"
	"github.com/inksync/studio-booking/internal/integrations/advisor"
)

// ResourceRepository справочник мастеров
type ResourceRepository interface {
	List(ctx context.Context, onlyAvailable bool) ([]*domain.Resource, error)
}

// Advisor подбор мастера по пожеланиям
type Advisor interface {
	Recommend(ctx context.Context, resources []advisor.ResourceSummary, prefs advisor.Preferences) (*advisor.Recommendation, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
