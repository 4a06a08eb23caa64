package domain

import "time"

// DayStatus классификация дня
type DayStatus string

const (
	DayAvailable   DayStatus = "available"
	DayLimited     DayStatus = "limited"
	DayUnavailable DayStatus = "unavailable"
)

// DayAvailability доступность ресурса на один календарный день
type DayAvailability struct {
	Date            time.Time
	Status          DayStatus
	WorkingMinutes  int
	OccupiedMinutes int
}

// Slot бронируемый интервал фиксированной длины
type Slot struct {
	Start       time.Time
	End         time.Time
	IsAvailable bool
}

// ClassifyDay определяет статус дня по занятости рабочего окна.
// День limited, если занято не меньше threshold от окна (граница включается в limited).
func ClassifyDay(workingMinutes, occupiedMinutes int, threshold float64, resourceAvailable bool) DayStatus {
	if !resourceAvailable || workingMinutes <= 0 {
		return DayUnavailable
	}
	if occupiedMinutes >= workingMinutes {
		return DayUnavailable
	}
	if float64(occupiedMinutes)/float64(workingMinutes) >= threshold {
		return DayLimited
	}
	return DayAvailable
}
