package get_available_slots

import (
	"fmt"

	"github.com/inksync/studio-booking/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ResourceID <= 0 {
		return fmt.Errorf("%w: resourceID must be positive", ErrInvalidInput)
	}

	if req.OfferingID <= 0 {
		return fmt.Errorf("%w: offeringID must be positive", ErrInvalidInput)
	}

	if req.Date == "" {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.Granularity != 0 &&
		(req.Granularity < domain.MinSlotGranularityMinutes || req.Granularity > domain.MaxSlotGranularityMinutes) {
		return fmt.Errorf("%w: granularity must be between %d and %d minutes",
			ErrInvalidInput, domain.MinSlotGranularityMinutes, domain.MaxSlotGranularityMinutes)
	}

	return nil
}
