package availability_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inksync/studio-booking/internal/domain"
	"github.com/inksync/studio-booking/internal/infra/cache"
	"github.com/inksync/studio-booking/internal/infra/storage/memory"
	"github.com/inksync/studio-booking/internal/integrations/calendar"
	"github.com/inksync/studio-booking/internal/service/availability"
	"github.com/inksync/studio-booking/internal/service/availability/models"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// 2025-03-10 понедельник
var monday = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

type fixture struct {
	svc      *availability.Service
	bookings *memory.BookingRepository
	calendar *calendar.MemoryAdapter
	resource *domain.Resource
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	resources := memory.NewResourceRepository(store)
	bookings := memory.NewBookingRepository(store)
	cal := calendar.NewMemoryAdapter()

	calendarID := "artist-1"
	res, err := resources.Create(context.Background(), &domain.Resource{
		UserID:       10,
		Name:         "Ada",
		IsAvailable:  true,
		CalendarID:   &calendarID,
		WorkingHours: domain.DefaultWorkingHours(),
	})
	require.NoError(t, err)

	svc := availability.NewService(resources, bookings, cal, cache.Noop{}, availability.Config{
		Location:           time.UTC,
		LimitedThreshold:   0.5,
		DefaultGranularity: 30,
		MaxRangeDays:       62,
	}, nopLogger{})

	return &fixture{svc: svc, bookings: bookings, calendar: cal, resource: res}
}

func (f *fixture) book(t *testing.T, start time.Time, minutes int) *domain.Booking {
	t.Helper()
	b, err := f.bookings.Create(context.Background(), &domain.Booking{
		CustomerID:   1,
		ResourceID:   f.resource.ID,
		OfferingID:   1,
		OfferingName: "Session",
		StartTime:    start,
		EndTime:      start.Add(time.Duration(minutes) * time.Minute),
		Status:       domain.StatusScheduled,
	})
	require.NoError(t, err)
	return b
}

func (f *fixture) day(t *testing.T, date time.Time) domain.DayAvailability {
	t.Helper()
	days, err := f.svc.ComputeDayAvailability(context.Background(), f.resource.ID, date, date)
	require.NoError(t, err)
	require.Len(t, days, 1)
	return days[0]
}

func TestComputeDayAvailability_ThresholdBoundary(t *testing.T) {
	tests := []struct {
		name     string
		occupied int
		want     domain.DayStatus
	}{
		{name: "empty", occupied: 0, want: domain.DayAvailable},
		{name: "one minute below half", occupied: 269, want: domain.DayAvailable},
		{name: "exactly half", occupied: 270, want: domain.DayLimited},
		{name: "whole window", occupied: 540, want: domain.DayUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.occupied > 0 {
				f.book(t, monday.Add(9*time.Hour), tt.occupied)
			}

			day := f.day(t, monday)
			assert.Equal(t, tt.want, day.Status)
			assert.Equal(t, 540, day.WorkingMinutes)
			assert.Equal(t, tt.occupied, day.OccupiedMinutes)
		})
	}
}

func TestComputeDayAvailability_CancelledBookingIgnored(t *testing.T) {
	f := newFixture(t)
	b := f.book(t, monday.Add(9*time.Hour), 300)
	require.NoError(t, f.bookings.Cancel(context.Background(), b.ID, "", monday))

	day := f.day(t, monday)
	assert.Equal(t, domain.DayAvailable, day.Status)
	assert.Equal(t, 0, day.OccupiedMinutes)
}

func TestComputeDayAvailability_ExternalCalendar(t *testing.T) {
	f := newFixture(t)

	// Внешнее событие частично вне рабочего окна: учитывается только пересечение
	f.calendar.AddBusy("artist-1", domain.Interval{Start: monday.Add(7 * time.Hour), End: monday.Add(11 * time.Hour)})

	// Зеркало собственного бронирования не считается дважды
	b := f.book(t, monday.Add(12*time.Hour), 120)
	eventID := f.calendar.AddBusy("artist-1", b.Interval())
	require.NoError(t, f.bookings.SetExternalEventID(context.Background(), b.ID, &eventID))

	day := f.day(t, monday)
	assert.Equal(t, 240, day.OccupiedMinutes)
	assert.Equal(t, domain.DayAvailable, day.Status)
}

func TestComputeDayAvailability_CalendarFailureIsIgnored(t *testing.T) {
	f := newFixture(t)
	f.calendar.FailWith = errors.New("calendar down")
	f.book(t, monday.Add(9*time.Hour), 60)

	day := f.day(t, monday)
	assert.Equal(t, 60, day.OccupiedMinutes)
}

func TestComputeDayAvailability_Range(t *testing.T) {
	f := newFixture(t)

	days, err := f.svc.ComputeDayAvailability(context.Background(), f.resource.ID, monday, monday.AddDate(0, 0, 6))
	require.NoError(t, err)
	require.Len(t, days, 7)
	for i, d := range days {
		assert.Equal(t, monday.AddDate(0, 0, i), d.Date)
	}
	assert.Equal(t, domain.DayUnavailable, days[5].Status, "saturday is a day off")
	assert.Equal(t, domain.DayUnavailable, days[6].Status, "sunday is a day off")

	_, err = f.svc.ComputeDayAvailability(context.Background(), f.resource.ID, monday, monday.AddDate(0, 0, -1))
	assert.ErrorIs(t, err, availability.ErrInvalidInput)

	_, err = f.svc.ComputeDayAvailability(context.Background(), f.resource.ID, monday, monday.AddDate(0, 0, 62))
	assert.ErrorIs(t, err, availability.ErrInvalidInput)

	_, err = f.svc.ComputeDayAvailability(context.Background(), 999, monday, monday)
	assert.ErrorIs(t, err, availability.ErrResourceNotFound)
}

func TestComputeSlots_CoverWorkingWindow(t *testing.T) {
	f := newFixture(t)
	f.book(t, monday.Add(10*time.Hour), 60)

	slots, err := f.svc.ComputeSlots(context.Background(), f.resource.ID, monday, 30)
	require.NoError(t, err)
	require.Len(t, slots, 18)

	// Слоты идут встык от открытия до закрытия
	assert.Equal(t, monday.Add(9*time.Hour), slots[0].Start)
	assert.Equal(t, monday.Add(18*time.Hour), slots[len(slots)-1].End)
	for i := 1; i < len(slots); i++ {
		assert.Equal(t, slots[i-1].End, slots[i].Start)
	}

	var busy int
	for _, s := range slots {
		if !s.IsAvailable {
			busy++
		}
	}
	assert.Equal(t, 2, busy)
	assert.False(t, slots[2].IsAvailable)
	assert.False(t, slots[3].IsAvailable)
	assert.True(t, slots[4].IsAvailable)
}

func TestComputeSlots_PartialTailIsDropped(t *testing.T) {
	f := newFixture(t)

	slots, err := f.svc.ComputeSlots(context.Background(), f.resource.ID, monday, 50)
	require.NoError(t, err)
	require.Len(t, slots, 10)
	assert.Equal(t, monday.Add(17*time.Hour+20*time.Minute), slots[9].End)
}

func TestComputeSlots_DayOffAndInvalidGranularity(t *testing.T) {
	f := newFixture(t)

	slots, err := f.svc.ComputeSlots(context.Background(), f.resource.ID, monday.AddDate(0, 0, 6), 30)
	require.NoError(t, err)
	assert.Empty(t, slots)

	_, err = f.svc.ComputeSlots(context.Background(), f.resource.ID, monday, 1)
	assert.ErrorIs(t, err, availability.ErrInvalidInput)
}

func TestGetSlots_DefaultGranularity(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.GetSlots(context.Background(), &models.GetSlotsRequest{
		ResourceID: f.resource.ID,
		Date:       "2025-03-10",
	})
	require.NoError(t, err)
	assert.Equal(t, 30, resp.GranularityMinutes)
	require.NotEmpty(t, resp.Slots)
	assert.Equal(t, "09:00", resp.Slots[0].Start)

	_, err = f.svc.GetSlots(context.Background(), &models.GetSlotsRequest{ResourceID: f.resource.ID, Date: "10.03.2025"})
	assert.ErrorIs(t, err, availability.ErrInvalidInput)
}

func TestOpenDates(t *testing.T) {
	f := newFixture(t)
	f.book(t, monday.AddDate(0, 0, 1).Add(9*time.Hour), 540)

	dates, err := f.svc.OpenDates(context.Background(), f.resource.ID, monday, 7)
	require.NoError(t, err)

	// Понедельник, среда, четверг, пятница: вторник занят, выходные закрыты
	require.Len(t, dates, 4)
	assert.Equal(t, monday, dates[0])
	assert.Equal(t, monday.AddDate(0, 0, 2), dates[1])
}
