package update_waitlist

import (
	"context"

	"github.com/inksync/studio-booking/internal/service/waitlist/models"
)

type WaitlistService interface {
	Update(ctx context.Context, entryID int64, req *models.UpdateWaitlistRequest) (*models.WaitlistEntryResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
