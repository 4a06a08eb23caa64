package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/inksync/studio-booking/pkg/types"
)

// ErrInvalidWorkingHours возвращается при некорректном расписании
var ErrInvalidWorkingHours = errors.New("domain: invalid working hours")

// Resource мастер (или любой другой бронируемый ресурс) студии
type Resource struct {
	ID          int64
	UserID      int64 // Аккаунт, который управляет ресурсом (Telegram ID)
	Name        string
	Specialty   string
	Bio         *string
	IsAvailable bool    // Ручной флаг "принимает записи"
	CalendarID  *string // Привязка к внешнему календарю

	WorkingHours WorkingHours

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsManagedBy returns true if userID is the account that manages the resource
func (r *Resource) IsManagedBy(userID int64) bool {
	return r.UserID == userID
}

// HasCalendar returns true if the resource is linked to an external calendar
func (r *Resource) HasCalendar() bool {
	return r.CalendarID != nil && *r.CalendarID != ""
}

// DaySchedule рабочее окно одного дня недели
type DaySchedule struct {
	IsOpen    bool
	OpenTime  types.TimeString
	CloseTime types.TimeString
}

// WorkingMinutes длительность рабочего окна в минутах (0 для выходного)
func (d DaySchedule) WorkingMinutes() int {
	if !d.IsOpen {
		return 0
	}
	open, closeAt := d.OpenTime.Minutes(), d.CloseTime.Minutes()
	if open < 0 || closeAt <= open {
		return 0
	}
	return closeAt - open
}

// Window возвращает рабочее окно на конкретную дату.
// ok = false, если в этот день ресурс не работает.
func (d DaySchedule) Window(date time.Time, loc *time.Location) (Interval, bool) {
	if d.WorkingMinutes() == 0 {
		return Interval{}, false
	}
	return Interval{
		Start: d.OpenTime.On(date, loc),
		End:   d.CloseTime.On(date, loc),
	}, true
}

// Validate проверяет, что у рабочего дня корректные границы
func (d DaySchedule) Validate() error {
	if !d.IsOpen {
		return nil
	}
	if err := d.OpenTime.Validate(); err != nil {
		return fmt.Errorf("%w: open time: %v", ErrInvalidWorkingHours, err)
	}
	if err := d.CloseTime.Validate(); err != nil {
		return fmt.Errorf("%w: close time: %v", ErrInvalidWorkingHours, err)
	}
	if !d.OpenTime.IsBefore(d.CloseTime) {
		return fmt.Errorf("%w: open time %s must be before close time %s", ErrInvalidWorkingHours, d.OpenTime, d.CloseTime)
	}
	return nil
}

// WorkingHours недельный шаблон рабочих часов
type WorkingHours struct {
	Monday    DaySchedule
	Tuesday   DaySchedule
	Wednesday DaySchedule
	Thursday  DaySchedule
	Friday    DaySchedule
	Saturday  DaySchedule
	Sunday    DaySchedule
}

// ForDay возвращает расписание на день недели
func (w WorkingHours) ForDay(day time.Weekday) DaySchedule {
	switch day {
	case time.Monday:
		return w.Monday
	case time.Tuesday:
		return w.Tuesday
	case time.Wednesday:
		return w.Wednesday
	case time.Thursday:
		return w.Thursday
	case time.Friday:
		return w.Friday
	case time.Saturday:
		return w.Saturday
	case time.Sunday:
		return w.Sunday
	default:
		return DaySchedule{IsOpen: false}
	}
}

// Set задает расписание на день недели
func (w *WorkingHours) Set(day time.Weekday, schedule DaySchedule) {
	switch day {
	case time.Monday:
		w.Monday = schedule
	case time.Tuesday:
		w.Tuesday = schedule
	case time.Wednesday:
		w.Wednesday = schedule
	case time.Thursday:
		w.Thursday = schedule
	case time.Friday:
		w.Friday = schedule
	case time.Saturday:
		w.Saturday = schedule
	case time.Sunday:
		w.Sunday = schedule
	}
}

// Validate проверяет все дни недели
func (w WorkingHours) Validate() error {
	for _, day := range Weekdays {
		if err := w.ForDay(day).Validate(); err != nil {
			return fmt.Errorf("%s: %w", day, err)
		}
	}
	return nil
}

// Weekdays дни недели в порядке от понедельника
var Weekdays = []time.Weekday{
	time.Monday,
	time.Tuesday,
	time.Wednesday,
	time.Thursday,
	time.Friday,
	time.Saturday,
	time.Sunday,
}

// ResourceUpdate частичное обновление ресурса
type ResourceUpdate struct {
	Name        *string
	Specialty   *string
	Bio         *string
	IsAvailable *bool
	CalendarID  *string
}

// IsEmpty returns true if nothing is updated
func (u ResourceUpdate) IsEmpty() bool {
	return u.Name == nil && u.Specialty == nil && u.Bio == nil && u.IsAvailable == nil && u.CalendarID == nil
}

// Apply применяет обновление к ресурсу
func (u ResourceUpdate) Apply(r *Resource) {
	if u.Name != nil {
		r.Name = *u.Name
	}
	if u.Specialty != nil {
		r.Specialty = *u.Specialty
	}
	if u.Bio != nil {
		r.Bio = u.Bio
	}
	if u.IsAvailable != nil {
		r.IsAvailable = *u.IsAvailable
	}
	if u.CalendarID != nil {
		if *u.CalendarID == "" {
			r.CalendarID = nil
		} else {
			r.CalendarID = u.CalendarID
		}
	}
}

// DefaultWorkingHours шаблон по умолчанию: будни с 09:00 до 18:00
func DefaultWorkingHours() WorkingHours {
	var w WorkingHours
	for _, day := range Weekdays {
		if day == time.Saturday || day == time.Sunday {
			continue
		}
		w.Set(day, DaySchedule{IsOpen: true, OpenTime: "09:00", CloseTime: "18:00"})
	}
	return w
}
