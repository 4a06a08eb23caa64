package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hour, minute int) time.Time {
	return time.Date(2025, 3, 10, hour, minute, 0, 0, time.UTC)
}

func TestClassifyDay(t *testing.T) {
	tests := []struct {
		name      string
		working   int
		occupied  int
		available bool
		want      DayStatus
	}{
		{name: "free day", working: 540, occupied: 0, available: true, want: DayAvailable},
		{name: "just below threshold", working: 540, occupied: 269, available: true, want: DayAvailable},
		{name: "exactly at threshold", working: 540, occupied: 270, available: true, want: DayLimited},
		{name: "almost full", working: 540, occupied: 539, available: true, want: DayLimited},
		{name: "fully booked", working: 540, occupied: 540, available: true, want: DayUnavailable},
		{name: "day off", working: 0, occupied: 0, available: true, want: DayUnavailable},
		{name: "resource paused", working: 540, occupied: 0, available: false, want: DayUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyDay(tt.working, tt.occupied, 0.5, tt.available))
		})
	}
}

func TestInterval_Overlaps(t *testing.T) {
	morning := Interval{Start: at(10, 0), End: at(12, 0)}

	assert.True(t, morning.Overlaps(Interval{Start: at(11, 0), End: at(13, 0)}))
	assert.False(t, morning.Overlaps(Interval{Start: at(12, 0), End: at(14, 0)}), "adjacent intervals must not overlap")
	assert.False(t, morning.Overlaps(Interval{Start: at(8, 0), End: at(10, 0)}))
	assert.True(t, morning.Contains(Interval{Start: at(10, 0), End: at(12, 0)}))
}

func TestMergeIntervals(t *testing.T) {
	merged := MergeIntervals([]Interval{
		{Start: at(14, 0), End: at(15, 0)},
		{Start: at(10, 0), End: at(11, 0)},
		{Start: at(11, 0), End: at(12, 0)},
		{Start: at(11, 30), End: at(11, 45)},
		{Start: at(16, 0), End: at(16, 0)},
	})

	require.Len(t, merged, 2)
	assert.Equal(t, Interval{Start: at(10, 0), End: at(12, 0)}, merged[0])
	assert.Equal(t, Interval{Start: at(14, 0), End: at(15, 0)}, merged[1])
	assert.Equal(t, 180, TotalMinutes(merged))
}

func TestClipAndMerge(t *testing.T) {
	window := Interval{Start: at(9, 0), End: at(18, 0)}

	got := ClipAndMerge(window, []Interval{
		{Start: at(7, 0), End: at(10, 0)},
		{Start: at(17, 0), End: at(20, 0)},
		{Start: at(19, 0), End: at(21, 0)},
	})

	require.Len(t, got, 2)
	assert.Equal(t, 60, got[0].Minutes())
	assert.Equal(t, 60, got[1].Minutes())
}

func TestDaySchedule_Validate(t *testing.T) {
	assert.NoError(t, DaySchedule{IsOpen: false}.Validate())
	assert.NoError(t, DaySchedule{IsOpen: true, OpenTime: "09:00", CloseTime: "18:00"}.Validate())
	assert.ErrorIs(t, DaySchedule{IsOpen: true, OpenTime: "18:00", CloseTime: "09:00"}.Validate(), ErrInvalidWorkingHours)
	assert.ErrorIs(t, DaySchedule{IsOpen: true, OpenTime: "9am", CloseTime: "18:00"}.Validate(), ErrInvalidWorkingHours)
}

func TestDefaultWorkingHours(t *testing.T) {
	w := DefaultWorkingHours()

	assert.Equal(t, 540, w.ForDay(time.Monday).WorkingMinutes())
	assert.Equal(t, 540, w.ForDay(time.Friday).WorkingMinutes())
	assert.Equal(t, 0, w.ForDay(time.Saturday).WorkingMinutes())
	assert.Equal(t, 0, w.ForDay(time.Sunday).WorkingMinutes())
	assert.NoError(t, w.Validate())

	window, ok := w.ForDay(time.Monday).Window(at(0, 0), time.UTC)
	require.True(t, ok)
	assert.Equal(t, at(9, 0), window.Start)
	assert.Equal(t, at(18, 0), window.End)
}

func TestBooking_StatusTransitions(t *testing.T) {
	b := &Booking{Status: StatusScheduled, StartTime: at(10, 0), EndTime: at(12, 0)}
	assert.True(t, b.IsActive())
	assert.True(t, b.CanBeCancelled())
	assert.True(t, b.CanBeRescheduled())
	assert.Equal(t, 120, b.DurationMinutes())

	b.Status = StatusCancelled
	assert.False(t, b.IsActive())
	assert.True(t, b.IsTerminal())
	assert.False(t, b.CanBeCancelled())
	assert.False(t, b.CanBeCompleted())

	price := 150.0
	b.Status = StatusCompleted
	b.OfferingPrice = &price
	assert.True(t, b.IsActive())
	assert.Equal(t, 150.0, b.Revenue())
}

func TestBookingsFilter_Matches(t *testing.T) {
	resourceID := int64(7)
	from := at(9, 0)
	to := at(18, 0)
	active := &Booking{ID: 1, ResourceID: 7, Status: StatusScheduled, StartTime: at(10, 0), EndTime: at(11, 0)}
	cancelled := &Booking{ID: 2, ResourceID: 7, Status: StatusCancelled, StartTime: at(12, 0), EndTime: at(13, 0)}

	f := BookingsFilter{ResourceID: &resourceID, From: &from, To: &to}
	assert.True(t, f.Matches(active))
	assert.False(t, f.Matches(cancelled))

	f.IncludeInactive = true
	assert.True(t, f.Matches(cancelled))

	f.ExcludeID = &active.ID
	assert.False(t, f.Matches(active))

	other := int64(8)
	assert.False(t, BookingsFilter{ResourceID: &other}.Matches(active))
}

func TestParseWaitlistEnums(t *testing.T) {
	style, err := ParseTattooStyle(" Neo-Traditional ")
	require.NoError(t, err)
	assert.Equal(t, StyleNeoTraditional, style)

	style, err = ParseTattooStyle("")
	require.NoError(t, err)
	assert.Equal(t, StyleUnspecified, style)

	_, err = ParseTattooStyle("cubism")
	assert.ErrorIs(t, err, ErrUnknownStyle)

	size, err := ParseSizeClass("extra-large")
	require.NoError(t, err)
	assert.Equal(t, SizeExtraLarge, size)

	_, err = ParseSizeClass("huge")
	assert.ErrorIs(t, err, ErrUnknownSize)

	budget, err := ParseBudgetBracket("200_500")
	require.NoError(t, err)
	assert.Equal(t, Budget200To500, budget)

	_, err = ParseBudgetBracket("free")
	assert.ErrorIs(t, err, ErrUnknownBudget)
}
