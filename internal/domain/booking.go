package domain

import (
	"errors"
	"time"
)

// ErrUnknownBookingStatus возвращается при разборе неизвестного статуса
var ErrUnknownBookingStatus = errors.New("domain: unknown booking status")

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusScheduled BookingStatus = "scheduled"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// ParseBookingStatus разбирает статус из строки
func ParseBookingStatus(s string) (BookingStatus, error) {
	switch BookingStatus(s) {
	case StatusScheduled, StatusCompleted, StatusCancelled:
		return BookingStatus(s), nil
	default:
		return "", ErrUnknownBookingStatus
	}
}

// ActiveStatuses статусы, которые занимают время ресурса.
// Интервалы бронирований с этими статусами попарно не пересекаются.
var ActiveStatuses = []BookingStatus{
	StatusScheduled,
	StatusCompleted,
}

// Booking represents a tattoo session booking
type Booking struct {
	ID         int64
	CustomerID int64
	ResourceID int64
	OfferingID int64
	StartTime  time.Time
	EndTime    time.Time
	Status     BookingStatus
	Notes      *string

	ExternalEventID *string // ID зеркального события во внешнем календаре

	CancellationReason *string
	CancelledAt        *time.Time
	CompletedAt        *time.Time

	// Denormalized data for history and revenue
	OfferingName  string
	OfferingPrice *float64

	WaitlistEntryID *int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Interval возвращает занимаемый интервал [StartTime, EndTime)
func (b *Booking) Interval() Interval {
	return Interval{Start: b.StartTime, End: b.EndTime}
}

// DurationMinutes длительность сеанса в минутах
func (b *Booking) DurationMinutes() int {
	return int(b.EndTime.Sub(b.StartTime) / time.Minute)
}

// IsActive returns true if the booking occupies the resource time
func (b *Booking) IsActive() bool {
	return b.Status == StatusScheduled || b.Status == StatusCompleted
}

// IsTerminal returns true if the booking can no longer change status
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCompleted || b.Status == StatusCancelled
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusScheduled
}

// CanBeCompleted returns true if the booking can be marked completed
func (b *Booking) CanBeCompleted() bool {
	return b.Status == StatusScheduled
}

// CanBeRescheduled returns true if the booking time can be changed
func (b *Booking) CanBeRescheduled() bool {
	return b.Status == StatusScheduled
}

// Revenue returns the frozen price for completed bookings, 0 otherwise
func (b *Booking) Revenue() float64 {
	if b.Status != StatusCompleted || b.OfferingPrice == nil {
		return 0
	}
	return *b.OfferingPrice
}

// BookingsFilter фильтр для выборки бронирований
type BookingsFilter struct {
	ResourceID      *int64         // Фильтр по ресурсу
	CustomerID      *int64         // Фильтр по клиенту
	From            *time.Time     // Бронирования, заканчивающиеся после From
	To              *time.Time     // Бронирования, начинающиеся до To
	Status          *BookingStatus // Фильтр по статусу
	ExcludeID       *int64         // Исключить бронирование (для переноса)
	IncludeInactive bool           // Включать ли отменённые бронирования
}

// Matches проверяет бронирование на соответствие фильтру.
// Используется in-memory хранилищем, Postgres строит аналогичный WHERE.
func (f BookingsFilter) Matches(b *Booking) bool {
	if f.ResourceID != nil && b.ResourceID != *f.ResourceID {
		return false
	}
	if f.CustomerID != nil && b.CustomerID != *f.CustomerID {
		return false
	}
	if f.From != nil && !b.EndTime.After(*f.From) {
		return false
	}
	if f.To != nil && !b.StartTime.Before(*f.To) {
		return false
	}
	if f.ExcludeID != nil && b.ID == *f.ExcludeID {
		return false
	}
	if f.Status != nil {
		return b.Status == *f.Status
	}
	if !f.IncludeInactive && !b.IsActive() {
		return false
	}
	return true
}
