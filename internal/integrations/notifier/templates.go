package notifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/inksync/studio-booking/internal/domain"
)

const messageTimeLayout = "02.01.2006 15:04"

// Templates формирует тексты уведомлений в часовом поясе студии
type Templates struct {
	studio string
	loc    *time.Location
}

// NewTemplates создает шаблоны
func NewTemplates(studioName string, loc *time.Location) *Templates {
	if loc == nil {
		loc = time.UTC
	}
	return &Templates{studio: studioName, loc: loc}
}

// BookingConfirmation подтверждение записи
func (t *Templates) BookingConfirmation(b *domain.Booking, resourceName string) Notification {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: запись подтверждена.\n", t.studio)
	fmt.Fprintf(&sb, "Мастер: %s\n", resourceName)
	fmt.Fprintf(&sb, "Услуга: %s\n", b.OfferingName)
	fmt.Fprintf(&sb, "Начало: %s, длительность %d мин.", t.format(b.StartTime), b.DurationMinutes())
	if b.OfferingPrice != nil {
		fmt.Fprintf(&sb, "\nСтоимость: %.2f", *b.OfferingPrice)
	}

	return Notification{RecipientID: b.CustomerID, Kind: KindBookingConfirmation, Text: sb.String()}
}

// BookingCancelled уведомление об отмене с причиной
func (t *Templates) BookingCancelled(b *domain.Booking, resourceName string) Notification {
	text := fmt.Sprintf("%s: запись к мастеру %s на %s отменена.", t.studio, resourceName, t.format(b.StartTime))
	if b.CancellationReason != nil && *b.CancellationReason != "" {
		text += "\nПричина: " + *b.CancellationReason
	}

	return Notification{RecipientID: b.CustomerID, Kind: KindBookingCancelled, Text: text}
}

// BookingRescheduled уведомление о переносе
func (t *Templates) BookingRescheduled(b *domain.Booking, resourceName string, previousStart time.Time) Notification {
	text := fmt.Sprintf("%s: запись к мастеру %s перенесена с %s на %s.",
		t.studio, resourceName, t.format(previousStart), t.format(b.StartTime))

	return Notification{RecipientID: b.CustomerID, Kind: KindBookingRescheduled, Text: text}
}

// WaitlistJoined подтверждение записи в лист ожидания
func (t *Templates) WaitlistJoined(e *domain.WaitlistEntry, message string) Notification {
	return Notification{
		RecipientID: e.CustomerID,
		Kind:        KindWaitlistJoined,
		Text:        fmt.Sprintf("%s: %s", t.studio, message),
	}
}

// WaitlistOpening освободилось время у мастера
func (t *Templates) WaitlistOpening(e *domain.WaitlistEntry, resourceName string, opened domain.Interval) Notification {
	text := fmt.Sprintf("%s: у мастера %s освободилось время %s - %s. Успейте записаться!",
		t.studio, resourceName, t.format(opened.Start), opened.End.In(t.loc).Format(domain.TimeFormat))

	return Notification{RecipientID: e.CustomerID, Kind: KindWaitlistOpening, Text: text}
}

// NewAvailability мастер снова принимает записи
func (t *Templates) NewAvailability(e *domain.WaitlistEntry, resourceName string) Notification {
	text := fmt.Sprintf("%s: мастер %s снова принимает записи. Выберите удобное время.", t.studio, resourceName)

	return Notification{RecipientID: e.CustomerID, Kind: KindNewAvailability, Text: text}
}

func (t *Templates) format(ts time.Time) string {
	return ts.In(t.loc).Format(messageTimeLayout)
}
