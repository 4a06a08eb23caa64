package list_waitlist

import (
	"context"

	"github.com/inksync/studio-booking/internal/service/waitlist/models"
)

type WaitlistService interface {
	ListByCustomer(ctx context.Context, customerID int64, includeInactive bool) (*models.WaitlistListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
