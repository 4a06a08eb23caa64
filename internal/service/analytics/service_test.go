package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inksync/studio-booking/internal/domain"
	"github.com/inksync/studio-booking/internal/infra/storage/memory"
	"github.com/inksync/studio-booking/internal/integrations/advisor"
	"github.com/inksync/studio-booking/internal/service/analytics"
	"github.com/inksync/studio-booking/internal/service/analytics/models"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// 2025-03-10 понедельник
var monday = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

type fixture struct {
	svc  *analytics.Service
	ada  *domain.Resource
	bo   *domain.Resource
	week *models.ReportRequest
}

// newFixture наполняет студию за неделю 2025-03-10 .. 2025-03-16 и одной записью за прошлую неделю
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	now := monday
	store := memory.NewStore()
	store.SetClock(func() time.Time { return now })

	resources := memory.NewResourceRepository(store)
	bookings := memory.NewBookingRepository(store)
	waitlist := memory.NewWaitlistRepository(store)

	ada, err := resources.Create(ctx, &domain.Resource{UserID: 10, Name: "Ada", IsAvailable: true, WorkingHours: domain.DefaultWorkingHours()})
	require.NoError(t, err)
	bo, err := resources.Create(ctx, &domain.Resource{UserID: 20, Name: "Bo", IsAvailable: true, WorkingHours: domain.DefaultWorkingHours()})
	require.NoError(t, err)

	price := func(v float64) *float64 { return &v }
	seed := []domain.Booking{
		{CustomerID: 1, ResourceID: ada.ID, OfferingID: 1, OfferingName: "Sleeve", OfferingPrice: price(200),
			StartTime: monday.Add(10 * time.Hour), EndTime: monday.Add(12 * time.Hour), Status: domain.StatusCompleted},
		{CustomerID: 1, ResourceID: ada.ID, OfferingID: 1, OfferingName: "Sleeve", OfferingPrice: price(200),
			StartTime: monday.Add(34 * time.Hour), EndTime: monday.Add(35 * time.Hour), Status: domain.StatusCancelled},
		{CustomerID: 2, ResourceID: bo.ID, OfferingID: 3, OfferingName: "Cover-up", OfferingPrice: price(300),
			StartTime: monday.Add(62 * time.Hour), EndTime: monday.Add(65 * time.Hour), Status: domain.StatusScheduled},
		{CustomerID: 3, ResourceID: ada.ID, OfferingID: 2, OfferingName: "Flash", OfferingPrice: price(100),
			StartTime: monday.Add(58 * time.Hour), EndTime: monday.Add(59 * time.Hour), Status: domain.StatusCompleted},
		// прошлая неделя
		{CustomerID: 4, ResourceID: ada.ID, OfferingID: 2, OfferingName: "Flash", OfferingPrice: price(150),
			StartTime: monday.AddDate(0, 0, -7).Add(10 * time.Hour), EndTime: monday.AddDate(0, 0, -7).Add(11 * time.Hour), Status: domain.StatusCompleted},
	}
	for i := range seed {
		_, err := bookings.Create(ctx, &seed[i])
		require.NoError(t, err)
	}

	addEntry := func(at time.Time, style domain.TattooStyle, resourceID *int64) *domain.WaitlistEntry {
		now = at
		e, err := waitlist.Create(ctx, &domain.WaitlistEntry{CustomerID: 7, ResourceID: resourceID, Style: style, IsActive: true})
		require.NoError(t, err)
		return e
	}
	converted := addEntry(monday.AddDate(0, 0, 1), domain.StyleRealism, &ada.ID)
	addEntry(monday.AddDate(0, 0, 2), domain.StyleRealism, nil)
	addEntry(monday.AddDate(0, 0, 2), domain.StyleJapanese, &bo.ID)
	addEntry(monday.AddDate(0, 0, -9), domain.StyleTribal, nil)

	bookingID := int64(1)
	require.NoError(t, waitlist.Deactivate(ctx, converted.ID, monday.AddDate(0, 0, 3), &bookingID))

	svc := analytics.NewService(bookings, waitlist, resources, advisor.WithFallback(nil, nopLogger{}), analytics.Config{
		Location:     time.UTC,
		MaxRangeDays: 31,
	}, nopLogger{})

	return &fixture{
		svc:  svc,
		ada:  ada,
		bo:   bo,
		week: &models.ReportRequest{UserID: 10, From: "2025-03-10", To: "2025-03-16"},
	}
}

func (f *fixture) forResource(id int64) *models.ReportRequest {
	req := *f.week
	req.ResourceID = &id
	return &req
}

func TestGrowth(t *testing.T) {
	tests := []struct {
		name      string
		cur, prev float64
		want      float64
	}{
		{name: "no previous data", cur: 10, prev: 0, want: 0},
		{name: "both empty", cur: 0, prev: 0, want: 0},
		{name: "increase", cur: 150, prev: 100, want: 50},
		{name: "decrease", cur: 50, prev: 100, want: -50},
		{name: "rounded", cur: 1, prev: 3, want: -66.67},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, analytics.Growth(tt.cur, tt.prev))
		})
	}
}

func TestBookingAnalytics(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.BookingAnalytics(context.Background(), f.week)
	require.NoError(t, err)

	assert.Equal(t, models.Period{From: "2025-03-10", To: "2025-03-16"}, resp.Period)
	assert.Equal(t, 4, resp.TotalBookings)
	assert.Equal(t, 2, resp.CompletedBookings)
	assert.Equal(t, 1, resp.CancelledBookings)
	assert.Equal(t, 1, resp.ScheduledBookings)
	assert.Equal(t, 300.0, resp.TotalRevenue)
	assert.Equal(t, 120.0, resp.AverageDurationMinutes)
	assert.Equal(t, 300.0, resp.BookingGrowth)
	assert.Equal(t, 100.0, resp.RevenueGrowth)

	require.Len(t, resp.TopOfferings, 2)
	assert.Equal(t, "Sleeve", resp.TopOfferings[0].Name)
	assert.Equal(t, "Flash", resp.TopOfferings[1].Name)

	require.Len(t, resp.BookingsByWeekday, 7)
	assert.Equal(t, models.WeekdayStat{Weekday: "Monday", Count: 1}, resp.BookingsByWeekday[1])
	assert.Equal(t, models.WeekdayStat{Weekday: "Wednesday", Count: 2}, resp.BookingsByWeekday[3])
}

func TestBookingAnalytics_InvalidPeriod(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name     string
		from, to string
	}{
		{name: "bad format", from: "10.03.2025", to: "2025-03-16"},
		{name: "reversed", from: "2025-03-16", to: "2025-03-10"},
		{name: "too long", from: "2025-01-01", to: "2025-03-16"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.BookingAnalytics(context.Background(), &models.ReportRequest{UserID: 10, From: tt.from, To: tt.to})
			assert.ErrorIs(t, err, analytics.ErrInvalidInput)
		})
	}
}

func TestResourceAnalytics(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.ResourceAnalytics(context.Background(), f.forResource(f.ada.ID))
	require.NoError(t, err)

	assert.Equal(t, "Ada", resp.Name)
	assert.Equal(t, 3, resp.TotalBookings)
	assert.Equal(t, 2, resp.Completed)
	assert.Equal(t, 1, resp.Cancelled)
	assert.Equal(t, 300.0, resp.Revenue)
	assert.Equal(t, 3.0, resp.BusyHours)
	assert.Equal(t, 66.67, resp.CompletionRate)
	assert.Equal(t, 200.0, resp.BookingGrowth)
	assert.Equal(t, 1, resp.WaitlistDemand)
}

func TestResourceAnalytics_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.ResourceAnalytics(ctx, f.week)
	assert.ErrorIs(t, err, analytics.ErrInvalidInput)

	_, err = f.svc.ResourceAnalytics(ctx, f.forResource(999))
	assert.ErrorIs(t, err, analytics.ErrResourceNotFound)

	// отчет по чужому мастеру
	_, err = f.svc.ResourceAnalytics(ctx, f.forResource(f.bo.ID))
	assert.ErrorIs(t, err, analytics.ErrAccessDenied)

	_, err = f.svc.BookingAnalytics(ctx, f.forResource(f.bo.ID))
	assert.ErrorIs(t, err, analytics.ErrAccessDenied)
}

func TestWaitlistAnalytics(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.WaitlistAnalytics(context.Background(), f.week)
	require.NoError(t, err)

	assert.Equal(t, 3, resp.TotalEntries)
	assert.Equal(t, 2, resp.ActiveEntries)
	assert.Equal(t, 1, resp.ConvertedCount)
	assert.Equal(t, 33.33, resp.ConversionRate)
	assert.Equal(t, 2.0, resp.AverageWaitDays)
	assert.Equal(t, []models.StyleStat{
		{Style: "realism", Count: 2},
		{Style: "japanese", Count: 1},
	}, resp.TopStyles)
	assert.Equal(t, []models.ResourceDemand{
		{ResourceID: f.ada.ID, Name: "Ada", Count: 1},
		{ResourceID: f.bo.ID, Name: "Bo", Count: 1},
	}, resp.TopResources)
}

func TestStudioAnalytics(t *testing.T) {
	f := newFixture(t)

	// фильтр по мастеру в сводном отчете игнорируется
	resp, err := f.svc.StudioAnalytics(context.Background(), f.forResource(f.bo.ID))
	require.NoError(t, err)

	assert.Equal(t, 4, resp.TotalBookings)
	assert.Equal(t, 300.0, resp.TotalRevenue)
	assert.Equal(t, 50.0, resp.CompletionRate)
	assert.Equal(t, 33.33, resp.CustomerRetentionRate)
	assert.Equal(t, 33.33, resp.WaitlistConversionRate)
	assert.Equal(t, 100.0, resp.BusinessGrowth)
	assert.Equal(t, 2, resp.ActiveWaitlist)

	require.Len(t, resp.ResourcePerformance, 2)
	assert.Equal(t, "Ada", resp.ResourcePerformance[0].Name)
	assert.Equal(t, 3, resp.ResourcePerformance[0].TotalBookings)
	assert.Equal(t, "Bo", resp.ResourcePerformance[1].Name)
	assert.Equal(t, 1, resp.ResourcePerformance[1].TotalBookings)
	assert.Equal(t, 3.0, resp.ResourcePerformance[1].BusyHours)

	assert.Equal(t, []models.PeakTime{
		{Weekday: "Monday", Hour: 10, Count: 1},
		{Weekday: "Wednesday", Hour: 10, Count: 1},
		{Weekday: "Wednesday", Hour: 14, Count: 1},
	}, resp.PeakTimes)
}

func TestInsights_UsesFallbackSummary(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Insights(context.Background(), f.week)
	require.NoError(t, err)

	require.NotEmpty(t, resp.Insights)
	assert.Contains(t, resp.Insights[0], "2025-03-10 - 2025-03-16")
	assert.Contains(t, resp.Insights[0], "4 бронирований")
	assert.NotEmpty(t, resp.Recommendations)

	scoped, err := f.svc.Insights(context.Background(), f.forResource(f.ada.ID))
	require.NoError(t, err)
	assert.Equal(t, &f.ada.ID, scoped.ResourceID)
	assert.NotEmpty(t, scoped.Insights)
}
