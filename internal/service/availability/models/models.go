package models

import (
	"time"

	"github.com/inksync/studio-booking/internal/domain"
)

// Request модели

// GetAvailabilityRequest запрос доступности по дням (даты в формате YYYY-MM-DD)
type GetAvailabilityRequest struct {
	ResourceID int64
	From       string
	To         string
}

// GetSlotsRequest запрос слотов на дату. Granularity = 0 означает шаг по умолчанию.
type GetSlotsRequest struct {
	ResourceID  int64
	Date        string
	Granularity int
}

// Response модели

// DayAvailabilityResponse доступность на один день
type DayAvailabilityResponse struct {
	Date            string `json:"date"`   // "2025-10-15"
	Status          string `json:"status"` // available | limited | unavailable
	WorkingMinutes  int    `json:"workingMinutes"`
	OccupiedMinutes int    `json:"occupiedMinutes"`
}

// AvailabilityResponse доступность ресурса по дням
type AvailabilityResponse struct {
	ResourceID int64                     `json:"resourceId"`
	From       string                    `json:"from"`
	To         string                    `json:"to"`
	Days       []DayAvailabilityResponse `json:"days"`
}

// SlotResponse слот фиксированной длины
type SlotResponse struct {
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	Start       string    `json:"start"` // "10:00"
	End         string    `json:"end"`   // "10:30"
	IsAvailable bool      `json:"isAvailable"`
}

// SlotsResponse слоты ресурса на дату
type SlotsResponse struct {
	ResourceID         int64          `json:"resourceId"`
	Date               string         `json:"date"`
	GranularityMinutes int            `json:"granularityMinutes"`
	Slots              []SlotResponse `json:"slots"`
}

// Методы конвертации

// FromDomainDays конвертирует дни в DTO
func FromDomainDays(resourceID int64, from, to time.Time, days []domain.DayAvailability) *AvailabilityResponse {
	resp := &AvailabilityResponse{
		ResourceID: resourceID,
		From:       from.Format(domain.DateFormat),
		To:         to.Format(domain.DateFormat),
		Days:       make([]DayAvailabilityResponse, 0, len(days)),
	}
	for _, d := range days {
		resp.Days = append(resp.Days, DayAvailabilityResponse{
			Date:            d.Date.Format(domain.DateFormat),
			Status:          string(d.Status),
			WorkingMinutes:  d.WorkingMinutes,
			OccupiedMinutes: d.OccupiedMinutes,
		})
	}
	return resp
}

// FromDomainSlots конвертирует слоты в DTO во временной зоне студии
func FromDomainSlots(resourceID int64, date time.Time, granularity int, slots []domain.Slot, loc *time.Location) *SlotsResponse {
	resp := &SlotsResponse{
		ResourceID:         resourceID,
		Date:               date.Format(domain.DateFormat),
		GranularityMinutes: granularity,
		Slots:              make([]SlotResponse, 0, len(slots)),
	}
	for _, s := range slots {
		start, end := s.Start.In(loc), s.End.In(loc)
		resp.Slots = append(resp.Slots, SlotResponse{
			StartTime:   start,
			EndTime:     end,
			Start:       start.Format(domain.TimeFormat),
			End:         end.Format(domain.TimeFormat),
			IsAvailable: s.IsAvailable,
		})
	}
	return resp
}
