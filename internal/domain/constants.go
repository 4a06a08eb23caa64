package domain

// Значения по умолчанию для движка доступности
const (
	DefaultSlotGranularityMinutes = 30
	DefaultLimitedThreshold       = 0.5
	DefaultMaxRangeDays           = 62
	DefaultAlternativeDays        = 14
)

// Ограничения бизнес-валидации
const (
	MaxNotesLength               = 500
	MaxCancellationReasonLength  = 500
	MaxWaitlistDescriptionLength = 1000
	MaxPreferredDatesLength      = 255
	MaxResourceNameLength        = 100
	MaxOfferingNameLength        = 100
	MinSlotGranularityMinutes    = 5
	MaxSlotGranularityMinutes    = 240
	MaxOfferingDurationMinutes   = 720
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
