package create_booking

import (
	"errors"
	"fmt"
	"time"

	createBooking "github.com/inksync/studio-booking/internal/usecase/create_booking"
)

var errInvalidStartTime = errors.New("invalid startTime")

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ResourceID      int64   `json:"resourceId"`
	OfferingID      int64   `json:"offeringId"`
	StartTime       string  `json:"startTime"` // RFC3339, "2025-10-15T10:00:00+03:00"
	Notes           *string `json:"notes,omitempty"`
	WaitlistEntryID *int64  `json:"waitlistEntryId,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(customerID int64) (*createBooking.Request, error) {
	startTime, err := time.Parse(time.RFC3339, r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidStartTime, err)
	}

	return &createBooking.Request{
		CustomerID:      customerID,
		ResourceID:      r.ResourceID,
		OfferingID:      r.OfferingID,
		StartTime:       startTime,
		Notes:           r.Notes,
		WaitlistEntryID: r.WaitlistEntryID,
	}, nil
}
