package notifier

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
)

// TelegramSender отправляет уведомления через Telegram бота
type TelegramSender struct {
	bot *bot.Bot
	log Logger
}

// NewTelegramSender создает отправителя по токену бота
func NewTelegramSender(token string, log Logger) (*TelegramSender, error) {
	b, err := bot.New(token, bot.WithSkipGetMe())
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return &TelegramSender{bot: b, log: log}, nil
}

// Send отправляет сообщение в личный чат клиента
func (s *TelegramSender) Send(ctx context.Context, n Notification) error {
	if n.RecipientID <= 0 {
		return ErrInvalidRecipient
	}

	_, err := s.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: n.RecipientID,
		Text:   n.Text,
	})
	if err != nil {
		return fmt.Errorf("%w: %s to %d: %v", ErrSendFailed, n.Kind, n.RecipientID, err)
	}

	s.log.Info("Notification %s sent to %d", n.Kind, n.RecipientID)
	return nil
}
