package get_available_slots

import (
	"time"

	"github.com/inksync/studio-booking/pkg/types"
)

// Request модель запроса на получение времени начала для услуги
type Request struct {
	ResourceID  int64  // ID мастера
	OfferingID  int64  // ID услуги
	Date        string // Дата (YYYY-MM-DD) в часовом поясе студии
	Granularity int    // Шаг сетки в минутах (0 = по умолчанию)
}

// Response модель ответа со списком возможных начал сеанса
type Response struct {
	Date            string      `json:"date"`
	ResourceID      int64       `json:"resourceId"`
	OfferingID      int64       `json:"offeringId"`
	DurationMinutes int         `json:"durationMinutes"`
	StartTimes      []StartTime `json:"startTimes"`
}

// StartTime время, с которого услуга целиком помещается в свободное время
type StartTime struct {
	Start     time.Time        `json:"start"`
	End       time.Time        `json:"end"`
	StartTime types.TimeString `json:"startTime"` // HH:MM по времени студии
}
