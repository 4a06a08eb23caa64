package reschedule_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("reschedule_booking: booking not found")

	// ErrAccessDenied возвращается, когда переносит не клиент и не владелец ресурса
	ErrAccessDenied = errors.New("reschedule_booking: access denied")

	// ErrCannotReschedule возвращается, когда бронирование уже отменено или выполнено
	ErrCannotReschedule = errors.New("reschedule_booking: booking cannot be rescheduled")

	// ErrResourceUnavailable возвращается, когда мастер не принимает записи
	ErrResourceUnavailable = errors.New("reschedule_booking: resource is not accepting bookings")

	// ErrStartInPast возвращается, когда новое время начала уже прошло
	ErrStartInPast = errors.New("reschedule_booking: start time is in the past")

	// ErrOutsideWorkingHours возвращается, когда сеанс выходит за рабочее окно дня
	ErrOutsideWorkingHours = errors.New("reschedule_booking: session is outside working hours")

	// ErrSlotNotAvailable возвращается, когда новый интервал занят
	ErrSlotNotAvailable = errors.New("reschedule_booking: slot is not available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reschedule_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reschedule_booking: internal error")
)
