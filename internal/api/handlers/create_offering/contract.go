package create_offering

import (
	"context"

	"github.com/inksync/studio-booking/internal/service/resources/models"
)

type ResourceService interface {
	CreateOffering(ctx context.Context, resourceID int64, req *models.CreateOfferingRequest) (*models.OfferingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
