package get_available_slots

import "errors"

var (
	// ErrResourceNotFound возвращается, когда ресурс не найден
	ErrResourceNotFound = errors.New("get_available_slots: resource not found")

	// ErrOfferingNotFound возвращается, когда услуга не найдена
	ErrOfferingNotFound = errors.New("get_available_slots: offering not found")

	// ErrOfferingMismatch возвращается, когда услуга принадлежит другому ресурсу или отключена
	ErrOfferingMismatch = errors.New("get_available_slots: offering is not available for this resource")

	// ErrInvalidDate возвращается при некорректной дате
	ErrInvalidDate = errors.New("get_available_slots: invalid date")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_available_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)
