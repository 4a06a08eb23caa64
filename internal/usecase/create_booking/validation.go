package create_booking

import (
	"fmt"
	"time"

	"github.com/inksync/studio-booking/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customerID must be positive", ErrInvalidInput)
	}

	if req.ResourceID <= 0 {
		return fmt.Errorf("%w: resourceID must be positive", ErrInvalidInput)
	}

	if req.OfferingID <= 0 {
		return fmt.Errorf("%w: offeringID must be positive", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if req.Notes != nil && len([]rune(*req.Notes)) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateOffering проверяет, что услуга активна и оказывается этим ресурсом
func validateOffering(offering *domain.ServiceOffering, resourceID int64) error {
	if !offering.BelongsTo(resourceID) || !offering.IsActive {
		return ErrOfferingMismatch
	}
	if offering.DurationMinutes <= 0 {
		return fmt.Errorf("%w: offering has no duration", ErrOfferingMismatch)
	}
	return nil
}

// validateInterval проверяет, что сеанс в будущем и целиком внутри рабочего окна дня
func validateInterval(res *domain.Resource, interval domain.Interval, now time.Time, loc *time.Location) error {
	if interval.Start.Before(now) {
		return ErrStartInPast
	}

	local := interval.Start.In(loc)
	window, ok := res.WorkingHours.ForDay(local.Weekday()).Window(local, loc)
	if !ok || !window.Contains(interval) {
		return ErrOutsideWorkingHours
	}
	return nil
}

// validateWaitlistEntry проверяет, что заявка активна и принадлежит клиенту
func validateWaitlistEntry(entry *domain.WaitlistEntry, customerID, resourceID int64) error {
	if !entry.IsActive {
		return fmt.Errorf("%w: entry is inactive", ErrInvalidWaitlistEntry)
	}
	if !entry.IsOwnedBy(customerID) {
		return fmt.Errorf("%w: entry belongs to another customer", ErrInvalidWaitlistEntry)
	}
	if !entry.MatchesResource(resourceID) {
		return fmt.Errorf("%w: entry is for another resource", ErrInvalidWaitlistEntry)
	}
	return nil
}
