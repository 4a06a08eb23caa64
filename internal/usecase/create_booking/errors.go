package create_booking

import "errors"

var (
	// ErrResourceNotFound возвращается, когда ресурс не найден
	ErrResourceNotFound = errors.New("create_booking: resource not found")

	// ErrResourceUnavailable возвращается, когда мастер не принимает записи
	ErrResourceUnavailable = errors.New("create_booking: resource is not accepting bookings")

	// ErrOfferingNotFound возвращается, когда услуга не найдена
	ErrOfferingNotFound = errors.New("create_booking: offering not found")

	// ErrOfferingMismatch возвращается, когда услуга принадлежит другому ресурсу или отключена
	ErrOfferingMismatch = errors.New("create_booking: offering is not available for this resource")

	// ErrStartInPast возвращается, когда время начала уже прошло
	ErrStartInPast = errors.New("create_booking: start time is in the past")

	// ErrOutsideWorkingHours возвращается, когда сеанс выходит за рабочее окно дня
	ErrOutsideWorkingHours = errors.New("create_booking: session is outside working hours")

	// ErrInvalidWaitlistEntry возвращается, когда заявка не найдена, неактивна или чужая
	ErrInvalidWaitlistEntry = errors.New("create_booking: invalid waitlist entry")

	// ErrSlotNotAvailable возвращается, когда интервал пересекается с занятым временем
	ErrSlotNotAvailable = errors.New("create_booking: slot is not available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
