package models

import (
	"errors"
	"strings"
	"time"

	"github.com/inksync/studio-booking/internal/domain"
)

var (
	// ErrDescriptionRequired возвращается, если описание пустое
	ErrDescriptionRequired = errors.New("description is required")

	// ErrDescriptionTooLong возвращается, если описание длиннее допустимого
	ErrDescriptionTooLong = errors.New("description is too long")

	// ErrPreferredDatesTooLong возвращается, если пожелания по датам слишком длинные
	ErrPreferredDatesTooLong = errors.New("preferred dates are too long")

	// ErrNothingToUpdate возвращается при пустом запросе на обновление
	ErrNothingToUpdate = errors.New("nothing to update")
)

// JoinWaitlistRequest запрос на добавление в лист ожидания
type JoinWaitlistRequest struct {
	CustomerID     int64  `json:"-"`
	ResourceID     *int64 `json:"resourceId,omitempty"` // nil = любой мастер
	Style          string `json:"style"`
	Size           string `json:"size"`
	PreferredDates string `json:"preferredDates"`
	Budget         string `json:"budget"`
	Description    string `json:"description"`
}

// ToDomain конвертирует запрос в заявку с разобранными значениями
func (r *JoinWaitlistRequest) ToDomain() (*domain.WaitlistEntry, error) {
	description := strings.TrimSpace(r.Description)
	if description == "" {
		return nil, ErrDescriptionRequired
	}
	if len([]rune(description)) > domain.MaxWaitlistDescriptionLength {
		return nil, ErrDescriptionTooLong
	}
	if len([]rune(r.PreferredDates)) > domain.MaxPreferredDatesLength {
		return nil, ErrPreferredDatesTooLong
	}

	style, err := domain.ParseTattooStyle(r.Style)
	if err != nil {
		return nil, err
	}
	size, err := domain.ParseSizeClass(r.Size)
	if err != nil {
		return nil, err
	}
	budget, err := domain.ParseBudgetBracket(r.Budget)
	if err != nil {
		return nil, err
	}

	return &domain.WaitlistEntry{
		CustomerID:     r.CustomerID,
		ResourceID:     r.ResourceID,
		Style:          style,
		Size:           size,
		PreferredDates: strings.TrimSpace(r.PreferredDates),
		Budget:         budget,
		Description:    description,
		IsActive:       true,
	}, nil
}

// UpdateWaitlistRequest частичное обновление заявки
type UpdateWaitlistRequest struct {
	CustomerID     int64   `json:"-"`
	ResourceID     *int64  `json:"resourceId,omitempty"`
	AnyResource    bool    `json:"anyResource,omitempty"` // сбросить предпочтение мастера
	Style          *string `json:"style,omitempty"`
	Size           *string `json:"size,omitempty"`
	PreferredDates *string `json:"preferredDates,omitempty"`
	Budget         *string `json:"budget,omitempty"`
	Description    *string `json:"description,omitempty"`
}

// ToDomain конвертирует запрос в domain обновление
func (r *UpdateWaitlistRequest) ToDomain() (domain.WaitlistUpdate, error) {
	upd := domain.WaitlistUpdate{
		ResourceID:    r.ResourceID,
		ClearResource: r.AnyResource,
	}

	if r.Style != nil {
		style, err := domain.ParseTattooStyle(*r.Style)
		if err != nil {
			return upd, err
		}
		upd.Style = &style
	}
	if r.Size != nil {
		size, err := domain.ParseSizeClass(*r.Size)
		if err != nil {
			return upd, err
		}
		upd.Size = &size
	}
	if r.Budget != nil {
		budget, err := domain.ParseBudgetBracket(*r.Budget)
		if err != nil {
			return upd, err
		}
		upd.Budget = &budget
	}
	if r.PreferredDates != nil {
		dates := strings.TrimSpace(*r.PreferredDates)
		if len([]rune(dates)) > domain.MaxPreferredDatesLength {
			return upd, ErrPreferredDatesTooLong
		}
		upd.PreferredDates = &dates
	}
	if r.Description != nil {
		description := strings.TrimSpace(*r.Description)
		if description == "" {
			return upd, ErrDescriptionRequired
		}
		if len([]rune(description)) > domain.MaxWaitlistDescriptionLength {
			return upd, ErrDescriptionTooLong
		}
		upd.Description = &description
	}

	if upd.IsEmpty() {
		return upd, ErrNothingToUpdate
	}
	return upd, nil
}

// WaitlistEntryResponse ответ с данными заявки
type WaitlistEntryResponse struct {
	ID                int64     `json:"id"`
	CustomerID        int64     `json:"customerId"`
	ResourceID        *int64    `json:"resourceId"`
	Style             string    `json:"style"`
	Size              string    `json:"size"`
	PreferredDates    string    `json:"preferredDates"`
	Budget            string    `json:"budget"`
	Description       string    `json:"description"`
	IsActive          bool      `json:"isActive"`
	PromotedBookingID *int64    `json:"promotedBookingId,omitempty"`
	DeactivatedAt     *string   `json:"deactivatedAt,omitempty"` // ISO 8601 format
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`

	// Message текст подтверждения, только в ответе на добавление
	Message string `json:"message,omitempty"`
}

// WaitlistListResponse ответ со списком заявок
type WaitlistListResponse struct {
	Entries []WaitlistEntryResponse `json:"entries"`
}

// FromDomainEntry конвертирует domain модель в DTO
func FromDomainEntry(e *domain.WaitlistEntry) *WaitlistEntryResponse {
	if e == nil {
		return nil
	}

	resp := &WaitlistEntryResponse{
		ID:                e.ID,
		CustomerID:        e.CustomerID,
		ResourceID:        e.ResourceID,
		Style:             string(e.Style),
		Size:              string(e.Size),
		PreferredDates:    e.PreferredDates,
		Budget:            string(e.Budget),
		Description:       e.Description,
		IsActive:          e.IsActive,
		PromotedBookingID: e.PromotedBookingID,
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}
	if e.DeactivatedAt != nil {
		deactivated := e.DeactivatedAt.Format(time.RFC3339)
		resp.DeactivatedAt = &deactivated
	}
	return resp
}

// FromDomainEntryList конвертирует список заявок в DTO
func FromDomainEntryList(entries []*domain.WaitlistEntry) *WaitlistListResponse {
	resp := &WaitlistListResponse{
		Entries: make([]WaitlistEntryResponse, 0, len(entries)),
	}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, *FromDomainEntry(e))
	}
	return resp
}
