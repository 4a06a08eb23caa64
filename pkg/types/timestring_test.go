package types

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		in      string
		want    TimeString
		wantErr bool
	}{
		{in: "09:00", want: "09:00"},
		{in: "18:30:00", want: "18:30"},
		{in: "24:00", want: "24:00"},
		{in: "24:01", wantErr: true},
		{in: "9:00", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "noon", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NewTimeStringFromString(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimeString)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeString_AddMinutes(t *testing.T) {
	got, err := TimeString("17:30").AddMinutes(30)
	require.NoError(t, err)
	assert.Equal(t, TimeString("18:00"), got)

	_, err = TimeString("23:30").AddMinutes(60)
	assert.ErrorIs(t, err, ErrTimeOverflow)
}

func TestTimeString_Compare(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore("18:00"))
	assert.False(t, TimeString("18:00").IsBefore("18:00"))
	assert.True(t, TimeString("18:00").IsAfter("09:00"))
	assert.Equal(t, -1, TimeString("bad").Minutes())
}

func TestTimeString_On(t *testing.T) {
	loc := time.FixedZone("MSK", 3*60*60)
	date := time.Date(2025, 3, 10, 23, 59, 0, 0, time.UTC)

	got := TimeString("09:15").On(date, loc)

	assert.Equal(t, time.Date(2025, 3, 10, 9, 15, 0, 0, loc), got)
}

func TestTimeString_On_DaylightSaving(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	tests := []struct {
		name      string
		date      time.Time
		dayLength time.Duration
	}{
		{name: "spring forward", date: time.Date(2026, 3, 29, 0, 0, 0, 0, berlin), dayLength: 23 * time.Hour},
		{name: "fall back", date: time.Date(2026, 10, 25, 0, 0, 0, 0, berlin), dayLength: 25 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			open := TimeString("09:00").On(tt.date, berlin)
			closeAt := TimeString("18:00").On(tt.date, berlin)

			assert.Equal(t, 9, open.Hour())
			assert.Equal(t, 0, open.Minute())
			assert.Equal(t, 18, closeAt.Hour())
			assert.Equal(t, 9*time.Hour, closeAt.Sub(open))

			midnight := TimeString("00:00").On(tt.date, berlin)
			endOfDay := TimeString("24:00").On(tt.date, berlin)
			assert.Equal(t, tt.date.AddDate(0, 0, 1), endOfDay)
			assert.Equal(t, tt.dayLength, endOfDay.Sub(midnight))
		})
	}
}

func TestTimeString_ScanValue(t *testing.T) {
	var ts TimeString
	require.NoError(t, ts.Scan("10:00:00"))
	assert.Equal(t, TimeString("10:00"), ts)

	v, err := ts.Value()
	require.NoError(t, err)
	assert.Equal(t, "10:00", v)
}
