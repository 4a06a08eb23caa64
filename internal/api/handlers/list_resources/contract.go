package list_resources

import (
	"context"

	"github.com/inksync/studio-booking/internal/service/resources/models"
)

type ResourceService interface {
	List(ctx context.Context, onlyAvailable bool) (*models.ResourceListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
