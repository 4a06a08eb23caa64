package calendar

import "time"

// BusyInterval занятый интервал во внешнем календаре
type BusyInterval struct {
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	EventID string    `json:"event_id,omitempty"`
}

// EventMetadata данные зеркального события
type EventMetadata struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	BookingID   int64  `json:"booking_id"`
	CustomerID  int64  `json:"customer_id"`
}

type busyResponse struct {
	Busy []BusyInterval `json:"busy"`
}

type eventRequest struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	EventMetadata
}

type eventResponse struct {
	ID string `json:"id"`
}
