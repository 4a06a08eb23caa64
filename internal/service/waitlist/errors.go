package waitlist

import "errors"

var (
	// ErrEntryNotFound возвращается, когда заявка не найдена
	ErrEntryNotFound = errors.New("waitlist: entry not found")

	// ErrResourceNotFound возвращается, когда указанный мастер не найден
	ErrResourceNotFound = errors.New("waitlist: resource not found")

	// ErrAccessDenied возвращается, когда заявка принадлежит другому клиенту
	ErrAccessDenied = errors.New("waitlist: access denied")

	// ErrEntryInactive возвращается при изменении неактивной заявки
	ErrEntryInactive = errors.New("waitlist: entry is inactive")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("waitlist: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("waitlist: internal error")
)
