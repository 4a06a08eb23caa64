package domain

import "time"

// ServiceOffering услуга (тип сеанса), которую оказывает ресурс
type ServiceOffering struct {
	ID              int64
	ResourceID      int64
	Name            string
	Description     *string
	DurationMinutes int
	Price           *float64 // nil = цена по запросу
	IsActive        bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Duration returns the offering duration
func (o *ServiceOffering) Duration() time.Duration {
	return time.Duration(o.DurationMinutes) * time.Minute
}

// BelongsTo returns true if the offering is provided by the resource
func (o *ServiceOffering) BelongsTo(resourceID int64) bool {
	return o.ResourceID == resourceID
}

// OfferingUpdate частичное обновление услуги
type OfferingUpdate struct {
	Name            *string
	Description     *string
	DurationMinutes *int
	Price           *float64
	ClearPrice      bool
	IsActive        *bool
}

// Apply применяет обновление к услуге
func (u OfferingUpdate) Apply(o *ServiceOffering) {
	if u.Name != nil {
		o.Name = *u.Name
	}
	if u.Description != nil {
		o.Description = u.Description
	}
	if u.DurationMinutes != nil {
		o.DurationMinutes = *u.DurationMinutes
	}
	if u.ClearPrice {
		o.Price = nil
	} else if u.Price != nil {
		o.Price = u.Price
	}
	if u.IsActive != nil {
		o.IsActive = *u.IsActive
	}
}
