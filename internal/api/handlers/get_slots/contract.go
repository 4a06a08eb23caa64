package get_slots

import (
	"context"

	"github.com/inksync/studio-booking/internal/service/availability/models"
)

type AvailabilityService interface {
	GetSlots(ctx context.Context, req *models.GetSlotsRequest) (*models.SlotsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
