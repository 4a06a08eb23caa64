package notifier

// Kind тип уведомления
type Kind string

const (
	KindBookingConfirmation Kind = "booking_confirmation"
	KindBookingCancelled    Kind = "booking_cancelled"
	KindBookingRescheduled  Kind = "booking_rescheduled"
	KindWaitlistJoined      Kind = "waitlist_joined"
	KindWaitlistOpening     Kind = "waitlist_opening"
	KindNewAvailability     Kind = "new_availability"
)

// Notification сообщение клиенту. RecipientID совпадает с Telegram ID пользователя.
type Notification struct {
	RecipientID int64
	Kind        Kind
	Text        string
}
