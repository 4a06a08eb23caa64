package analytics

import "errors"

var (
	// ErrResourceNotFound возвращается, когда мастер не найден
	ErrResourceNotFound = errors.New("analytics: resource not found")

	// ErrAccessDenied возвращается, когда отчет по мастеру запрашивает не его владелец
	ErrAccessDenied = errors.New("analytics: access denied")

	// ErrInvalidInput возвращается при некорректном периоде
	ErrInvalidInput = errors.New("analytics: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("analytics: internal error")
)
