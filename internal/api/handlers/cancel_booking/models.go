package cancel_booking

import (
	cancelBooking "github.com/inksync/studio-booking/internal/usecase/cancel_booking"
)

// CancelBookingRequest HTTP request model
type CancelBookingRequest struct {
	Reason string `json:"reason"`
}

// ToUseCaseRequest конвертирует HTTP request в модель use case
func (r *CancelBookingRequest) ToUseCaseRequest(bookingID, userID int64) *cancelBooking.Request {
	return &cancelBooking.Request{
		BookingID:   bookingID,
		RequesterID: userID,
		Reason:      r.Reason,
	}
}
