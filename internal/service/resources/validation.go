package resources

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/inksync/studio-booking/internal/domain"
)

func validateName(field, name string, maxLen int) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidInput, field)
	}
	if utf8.RuneCountInString(name) > maxLen {
		return fmt.Errorf("%w: %s must be at most %d characters", ErrInvalidInput, field, maxLen)
	}
	return nil
}

func validateResource(r *domain.Resource) error {
	if err := validateName("name", r.Name, domain.MaxResourceNameLength); err != nil {
		return err
	}
	if utf8.RuneCountInString(r.Specialty) > domain.MaxResourceNameLength {
		return fmt.Errorf("%w: specialty must be at most %d characters", ErrInvalidInput, domain.MaxResourceNameLength)
	}
	return nil
}

func validateOffering(o *domain.ServiceOffering) error {
	if err := validateName("name", o.Name, domain.MaxOfferingNameLength); err != nil {
		return err
	}
	if o.DurationMinutes <= 0 || o.DurationMinutes > domain.MaxOfferingDurationMinutes {
		return fmt.Errorf("%w: durationMinutes must be in 1..%d", ErrInvalidInput, domain.MaxOfferingDurationMinutes)
	}
	if o.Price != nil && *o.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	return nil
}
