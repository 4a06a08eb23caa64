package advisor

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("advisor client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе советника
	ErrInvalidResponse = errors.New("advisor client: invalid response")

	// ErrUnauthorized возвращается при неверном API ключе
	ErrUnauthorized = errors.New("advisor client: unauthorized")

	// ErrDisabled возвращается, когда советник выключен конфигурацией
	ErrDisabled = errors.New("advisor client: disabled")
)
