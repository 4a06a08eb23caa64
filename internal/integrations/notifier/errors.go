package notifier

import "errors"

var (
	// ErrInvalidRecipient возвращается, когда у уведомления нет получателя
	ErrInvalidRecipient = errors.New("notifier: invalid recipient")

	// ErrSendFailed возвращается при ошибке доставки
	ErrSendFailed = errors.New("notifier: send failed")
)
