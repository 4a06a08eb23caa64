package list_offerings

import (
	"context"

	"github.com/inksync/studio-booking/internal/service/resources/models"
)

type ResourceService interface {
	ListOfferings(ctx context.Context, resourceID int64, includeInactive bool) (*models.OfferingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
