package join_waitlist

import (
	"context"

	"github.com/inksync/studio-booking/internal/service/sideeffects"
	"github.com/inksync/studio-booking/internal/service/waitlist/models"
)

// UseCase добавление в лист ожидания с персональным подтверждением
type UseCase struct {
	waitlist WaitlistService
	advisor  Advisor
	effects  SideEffects
	logger   Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(waitlist WaitlistService, advisorClient Advisor, effects SideEffects, logger Logger) *UseCase {
	return &UseCase{
		waitlist: waitlist,
		advisor:  advisorClient,
		effects:  effects,
		logger:   logger,
	}
}

// Execute создает заявку, готовит текст подтверждения и отправляет его клиенту.
// Ошибки сервиса листа ожидания возвращаются как есть.
func (uc *UseCase) Execute(ctx context.Context, req *models.JoinWaitlistRequest) (*models.WaitlistEntryResponse, error) {
	entry, err := uc.waitlist.Join(ctx, req)
	if err != nil {
		return nil, err
	}

	message, err := uc.advisor.WaitlistMessage(ctx, sideeffects.PreferencesOf(entry))
	if err != nil {
		uc.logger.Warn("JoinWaitlist: advisor message for entry id=%d failed: %v", entry.ID, err)
		message = ""
	}

	uc.effects.WaitlistJoined(ctx, entry, message)

	resp := models.FromDomainEntry(entry)
	resp.Message = message
	return resp, nil
}
