package recommend_resource

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных пожеланиях
	ErrInvalidInput = errors.New("recommend_resource: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("recommend_resource: internal error")
)
