package calendar

import "errors"

var (
	// ErrEventNotFound возвращается, когда событие отсутствует во внешнем календаре
	ErrEventNotFound = errors.New("calendar client: event not found")

	// ErrCalendarNotFound возвращается, когда календарь ресурса не найден
	ErrCalendarNotFound = errors.New("calendar client: calendar not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("calendar client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от шлюза календаря
	ErrInvalidResponse = errors.New("calendar client: invalid response")
)
