package reschedule_booking

import "time"

// Request модель запроса на перенос бронирования
type Request struct {
	BookingID    int64     // ID бронирования
	RequesterID  int64     // Клиент или владелец ресурса
	NewStartTime time.Time // Новое время начала
}
