package join_waitlist

import (
	"context"

	"github.com/inksync/studio-booking/internal/domain"
	"github.com/inksync/studio-booking/internal/integrations/advisor"
	"github.com/inksync/studio-booking/internal/service/waitlist/models"
)

// WaitlistService добавление заявки
type WaitlistService interface {
	Join(ctx context.Context, req *models.JoinWaitlistRequest) (*domain.WaitlistEntry, error)
}

// Advisor текст подтверждения по пожеланиям клиента
type Advisor interface {
	WaitlistMessage(ctx context.Context, prefs advisor.Preferences) (string, error)
}

// SideEffects действия после добавления заявки
type SideEffects interface {
	WaitlistJoined(ctx context.Context, e *domain.WaitlistEntry, message string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
