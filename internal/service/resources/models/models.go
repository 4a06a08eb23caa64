package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/inksync/studio-booking/internal/domain"
	"github.com/inksync/studio-booking/pkg/types"
)

var (
	// ErrInvalidWorkingHours возвращается при некорректном расписании в запросе
	ErrInvalidWorkingHours = errors.New("invalid working hours")
)

// Request модели

// CreateResourceRequest запрос на создание ресурса (мастера)
type CreateResourceRequest struct {
	UserID       int64            `json:"-"`
	Name         string           `json:"name"`
	Specialty    string           `json:"specialty"`
	Bio          *string          `json:"bio,omitempty"`
	CalendarID   *string          `json:"calendarId,omitempty"`
	IsAvailable  *bool            `json:"isAvailable,omitempty"`
	WorkingHours *WorkingHoursDTO `json:"workingHours,omitempty"`
}

// UpdateResourceRequest частичное обновление профиля ресурса.
// Пустой calendarId отвязывает календарь.
type UpdateResourceRequest struct {
	UserID      int64   `json:"-"`
	Name        *string `json:"name,omitempty"`
	Specialty   *string `json:"specialty,omitempty"`
	Bio         *string `json:"bio,omitempty"`
	IsAvailable *bool   `json:"isAvailable,omitempty"`
	CalendarID  *string `json:"calendarId,omitempty"`
}

// ToDomain конвертирует запрос в domain обновление
func (r *UpdateResourceRequest) ToDomain() domain.ResourceUpdate {
	return domain.ResourceUpdate{
		Name:        r.Name,
		Specialty:   r.Specialty,
		Bio:         r.Bio,
		IsAvailable: r.IsAvailable,
		CalendarID:  r.CalendarID,
	}
}

// CreateOfferingRequest запрос на создание услуги
type CreateOfferingRequest struct {
	UserID          int64    `json:"-"`
	Name            string   `json:"name"`
	Description     *string  `json:"description,omitempty"`
	DurationMinutes int      `json:"durationMinutes"`
	Price           *float64 `json:"price,omitempty"`
}

// UpdateOfferingRequest частичное обновление услуги
type UpdateOfferingRequest struct {
	UserID          int64    `json:"-"`
	Name            *string  `json:"name,omitempty"`
	Description     *string  `json:"description,omitempty"`
	DurationMinutes *int     `json:"durationMinutes,omitempty"`
	Price           *float64 `json:"price,omitempty"`
	ClearPrice      bool     `json:"clearPrice,omitempty"`
	IsActive        *bool    `json:"isActive,omitempty"`
}

// ToDomain конвертирует запрос в domain обновление
func (r *UpdateOfferingRequest) ToDomain() domain.OfferingUpdate {
	return domain.OfferingUpdate{
		Name:            r.Name,
		Description:     r.Description,
		DurationMinutes: r.DurationMinutes,
		Price:           r.Price,
		ClearPrice:      r.ClearPrice,
		IsActive:        r.IsActive,
	}
}

// DayScheduleDTO рабочее окно одного дня
type DayScheduleDTO struct {
	IsOpen    bool   `json:"isOpen"`
	OpenTime  string `json:"openTime,omitempty"`  // "09:00"
	CloseTime string `json:"closeTime,omitempty"` // "18:00"
}

// WorkingHoursDTO недельный шаблон рабочих часов
type WorkingHoursDTO struct {
	Monday    DayScheduleDTO `json:"monday"`
	Tuesday   DayScheduleDTO `json:"tuesday"`
	Wednesday DayScheduleDTO `json:"wednesday"`
	Thursday  DayScheduleDTO `json:"thursday"`
	Friday    DayScheduleDTO `json:"friday"`
	Saturday  DayScheduleDTO `json:"saturday"`
	Sunday    DayScheduleDTO `json:"sunday"`
}

// ToDomain конвертирует и валидирует расписание
func (w *WorkingHoursDTO) ToDomain() (domain.WorkingHours, error) {
	var out domain.WorkingHours
	days := map[time.Weekday]DayScheduleDTO{
		time.Monday:    w.Monday,
		time.Tuesday:   w.Tuesday,
		time.Wednesday: w.Wednesday,
		time.Thursday:  w.Thursday,
		time.Friday:    w.Friday,
		time.Saturday:  w.Saturday,
		time.Sunday:    w.Sunday,
	}

	for _, day := range domain.Weekdays {
		dto := days[day]
		if !dto.IsOpen {
			out.Set(day, domain.DaySchedule{IsOpen: false})
			continue
		}

		open, err := types.NewTimeStringFromString(dto.OpenTime)
		if err != nil {
			return out, fmt.Errorf("%w: %s openTime: %v", ErrInvalidWorkingHours, strings.ToLower(day.String()), err)
		}
		closeAt, err := types.NewTimeStringFromString(dto.CloseTime)
		if err != nil {
			return out, fmt.Errorf("%w: %s closeTime: %v", ErrInvalidWorkingHours, strings.ToLower(day.String()), err)
		}
		out.Set(day, domain.DaySchedule{IsOpen: true, OpenTime: open, CloseTime: closeAt})
	}

	if err := out.Validate(); err != nil {
		return out, fmt.Errorf("%w: %v", ErrInvalidWorkingHours, err)
	}
	return out, nil
}

// Response модели

// ResourceResponse ответ с данными ресурса
type ResourceResponse struct {
	ID           int64           `json:"id"`
	UserID       int64           `json:"userId"`
	Name         string          `json:"name"`
	Specialty    string          `json:"specialty"`
	Bio          *string         `json:"bio,omitempty"`
	IsAvailable  bool            `json:"isAvailable"`
	CalendarID   *string         `json:"calendarId,omitempty"`
	WorkingHours WorkingHoursDTO `json:"workingHours"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// ResourceListResponse ответ со списком ресурсов
type ResourceListResponse struct {
	Resources []ResourceResponse `json:"resources"`
}

// OfferingResponse ответ с данными услуги
type OfferingResponse struct {
	ID              int64     `json:"id"`
	ResourceID      int64     `json:"resourceId"`
	Name            string    `json:"name"`
	Description     *string   `json:"description,omitempty"`
	DurationMinutes int       `json:"durationMinutes"`
	Price           *float64  `json:"price"` // null = цена по запросу
	IsActive        bool      `json:"isActive"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// OfferingListResponse ответ со списком услуг
type OfferingListResponse struct {
	Offerings []OfferingResponse `json:"offerings"`
}

// StyleResponse стиль из каталога
type StyleResponse struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// StyleListResponse каталог стилей
type StyleListResponse struct {
	Styles []StyleResponse `json:"styles"`
}

// Методы конвертации

// FromDomainWorkingHours конвертирует расписание в DTO
func FromDomainWorkingHours(w domain.WorkingHours) WorkingHoursDTO {
	day := func(d time.Weekday) DayScheduleDTO {
		s := w.ForDay(d)
		if !s.IsOpen {
			return DayScheduleDTO{IsOpen: false}
		}
		return DayScheduleDTO{IsOpen: true, OpenTime: s.OpenTime.String(), CloseTime: s.CloseTime.String()}
	}

	return WorkingHoursDTO{
		Monday:    day(time.Monday),
		Tuesday:   day(time.Tuesday),
		Wednesday: day(time.Wednesday),
		Thursday:  day(time.Thursday),
		Friday:    day(time.Friday),
		Saturday:  day(time.Saturday),
		Sunday:    day(time.Sunday),
	}
}

// FromDomainResource конвертирует domain модель в DTO
func FromDomainResource(r *domain.Resource) *ResourceResponse {
	if r == nil {
		return nil
	}
	return &ResourceResponse{
		ID:           r.ID,
		UserID:       r.UserID,
		Name:         r.Name,
		Specialty:    r.Specialty,
		Bio:          r.Bio,
		IsAvailable:  r.IsAvailable,
		CalendarID:   r.CalendarID,
		WorkingHours: FromDomainWorkingHours(r.WorkingHours),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// FromDomainResourceList конвертирует список ресурсов
func FromDomainResourceList(resources []*domain.Resource) *ResourceListResponse {
	resp := &ResourceListResponse{Resources: make([]ResourceResponse, 0, len(resources))}
	for _, r := range resources {
		resp.Resources = append(resp.Resources, *FromDomainResource(r))
	}
	return resp
}

// FromDomainOffering конвертирует domain модель в DTO
func FromDomainOffering(o *domain.ServiceOffering) *OfferingResponse {
	if o == nil {
		return nil
	}
	return &OfferingResponse{
		ID:              o.ID,
		ResourceID:      o.ResourceID,
		Name:            o.Name,
		Description:     o.Description,
		DurationMinutes: o.DurationMinutes,
		Price:           o.Price,
		IsActive:        o.IsActive,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

// FromDomainOfferingList конвертирует список услуг
func FromDomainOfferingList(offerings []*domain.ServiceOffering) *OfferingListResponse {
	resp := &OfferingListResponse{Offerings: make([]OfferingResponse, 0, len(offerings))}
	for _, o := range offerings {
		resp.Offerings = append(resp.Offerings, *FromDomainOffering(o))
	}
	return resp
}

// FromStyleCatalog конвертирует каталог стилей
func FromStyleCatalog(catalog []domain.StyleInfo) *StyleListResponse {
	resp := &StyleListResponse{Styles: make([]StyleResponse, 0, len(catalog))}
	for _, s := range catalog {
		resp.Styles = append(resp.Styles, StyleResponse{Name: s.Name, Description: s.Description})
	}
	return resp
}
