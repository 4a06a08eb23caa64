package join_waitlist

import (
	"context"

	"github.com/inksync/studio-booking/internal/service/waitlist/models"
)

type JoinWaitlistUseCase interface {
	Execute(ctx context.Context, req *models.JoinWaitlistRequest) (*models.WaitlistEntryResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
