package cancel_booking_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inksync/studio-booking/internal/domain"
	"github.com/inksync/studio-booking/internal/infra/cache"
	"github.com/inksync/studio-booking/internal/infra/lock"
	"github.com/inksync/studio-booking/internal/infra/storage/memory"
	"github.com/inksync/studio-booking/internal/integrations/advisor"
	"github.com/inksync/studio-booking/internal/integrations/calendar"
	"github.com/inksync/studio-booking/internal/service/availability"
	"github.com/inksync/studio-booking/internal/usecase/cancel_booking"
	"github.com/inksync/studio-booking/internal/usecase/create_booking"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type nopMetrics struct{}

func (nopMetrics) IncBookings(string) {}

type effects struct {
	cancelled []*domain.Booking
}

func (e *effects) BookingCreated(context.Context, *domain.Booking, *domain.Resource) {}

func (e *effects) BookingCancelled(_ context.Context, b *domain.Booking, _ *domain.Resource) {
	e.cancelled = append(e.cancelled, b)
}

// 2025-03-10 понедельник, рабочее окно 09:00-18:00
var monday = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

const (
	customerID = int64(42)
	ownerID    = int64(500)
)

type env struct {
	create   *create_booking.UseCase
	cancel   *cancel_booking.UseCase
	avail    *availability.Service
	effects  *effects
	resource *domain.Resource
	offering *domain.ServiceOffering
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()

	store := memory.NewStore()
	resources := memory.NewResourceRepository(store)
	offerings := memory.NewOfferingRepository(store)
	bookings := memory.NewBookingRepository(store)
	tx := memory.NewTxManager(store)

	res, err := resources.Create(ctx, &domain.Resource{
		UserID: ownerID, Name: "Ada", IsAvailable: true, WorkingHours: domain.DefaultWorkingHours(),
	})
	require.NoError(t, err)
	_, err = resources.Create(ctx, &domain.Resource{
		UserID: 501, Name: "Bo", Specialty: "Fine line", IsAvailable: true, WorkingHours: domain.DefaultWorkingHours(),
	})
	require.NoError(t, err)

	price := 400.0
	offering, err := offerings.Create(ctx, &domain.ServiceOffering{
		ResourceID: res.ID, Name: "Half day", DurationMinutes: 240, Price: &price, IsActive: true,
	})
	require.NoError(t, err)

	avail := availability.NewService(resources, bookings, calendar.NewMemoryAdapter(), cache.Noop{},
		availability.Config{Location: time.UTC, LimitedThreshold: 0.5}, nopLogger{})
	fx := &effects{}
	clock := fixedClock{now: monday.Add(-24 * time.Hour)}

	create := create_booking.NewUseCase(bookings, resources, offerings, memory.NewWaitlistRepository(store),
		avail, lock.NewMemoryLocker(), tx, fx, nopMetrics{}, nopLogger{})
	create.SetTimeProvider(clock)

	cancel := cancel_booking.NewUseCase(bookings, resources, avail, advisor.WithFallback(nil, nopLogger{}),
		tx, fx, nopMetrics{}, 14, nopLogger{})
	cancel.SetTimeProvider(clock)

	return &env{create: create, cancel: cancel, avail: avail, effects: fx, resource: res, offering: offering}
}

func (e *env) book(t *testing.T, startHour int) int64 {
	t.Helper()
	resp, err := e.create.Execute(context.Background(), &create_booking.Request{
		CustomerID: customerID,
		ResourceID: e.resource.ID,
		OfferingID: e.offering.ID,
		StartTime:  monday.Add(time.Duration(startHour) * time.Hour),
	})
	require.NoError(t, err)
	return resp.ID
}

func TestExecute_CustomerCancels(t *testing.T) {
	e := newEnv(t)
	id := e.book(t, 10)

	resp, err := e.cancel.Execute(context.Background(), &cancel_booking.Request{
		BookingID: id, RequesterID: customerID, Reason: "  feeling unwell ",
	})
	require.NoError(t, err)

	assert.Equal(t, "cancelled", resp.Booking.Status)
	require.NotNil(t, resp.Booking.CancellationReason)
	assert.Equal(t, "feeling unwell", *resp.Booking.CancellationReason)
	require.Len(t, e.effects.cancelled, 1)

	// Альтернативы только из реальных кандидатов: другой мастер и открытые даты
	require.NotNil(t, resp.Alternatives)
	assert.NotEmpty(t, resp.Alternatives.Message)
	require.Len(t, resp.Alternatives.Resources, 1)
	assert.Equal(t, "Bo", resp.Alternatives.Resources[0].Name)
	assert.Equal(t, []string{"2025-03-10", "2025-03-11", "2025-03-12"}, resp.Alternatives.Dates)
}

func TestExecute_OwnerCanCancel(t *testing.T) {
	e := newEnv(t)
	id := e.book(t, 10)

	_, err := e.cancel.Execute(context.Background(), &cancel_booking.Request{
		BookingID: id, RequesterID: ownerID, Reason: "artist is ill",
	})
	assert.NoError(t, err)
}

func TestExecute_Errors(t *testing.T) {
	e := newEnv(t)
	id := e.book(t, 10)
	ctx := context.Background()

	_, err := e.cancel.Execute(ctx, &cancel_booking.Request{BookingID: id, RequesterID: customerID, Reason: "   "})
	assert.ErrorIs(t, err, cancel_booking.ErrInvalidInput)

	_, err = e.cancel.Execute(ctx, &cancel_booking.Request{BookingID: 999, RequesterID: customerID, Reason: "x"})
	assert.ErrorIs(t, err, cancel_booking.ErrBookingNotFound)

	_, err = e.cancel.Execute(ctx, &cancel_booking.Request{BookingID: id, RequesterID: 7, Reason: "x"})
	assert.ErrorIs(t, err, cancel_booking.ErrAccessDenied)

	_, err = e.cancel.Execute(ctx, &cancel_booking.Request{BookingID: id, RequesterID: customerID, Reason: "x"})
	require.NoError(t, err)

	_, err = e.cancel.Execute(ctx, &cancel_booking.Request{BookingID: id, RequesterID: customerID, Reason: "again"})
	assert.ErrorIs(t, err, cancel_booking.ErrCannotCancel)
	assert.Len(t, e.effects.cancelled, 1)
}

// Рабочее окно 09:00-18:00, услуга 240 минут: занятость, конфликт,
// запись встык до закрытия и освобождение слотов после отмены.
func TestBookingLifecycleScenario(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	bookingA := e.book(t, 10)

	days, err := e.avail.ComputeDayAvailability(ctx, e.resource.ID, monday, monday)
	require.NoError(t, err)
	assert.Equal(t, 240, days[0].OccupiedMinutes)
	assert.Equal(t, domain.DayAvailable, days[0].Status, "4 of 9 hours is below the 0.5 threshold")

	_, err = e.create.Execute(ctx, &create_booking.Request{
		CustomerID: 43, ResourceID: e.resource.ID, OfferingID: e.offering.ID, StartTime: monday.Add(12 * time.Hour),
	})
	assert.ErrorIs(t, err, create_booking.ErrSlotNotAvailable)

	resp, err := e.create.Execute(ctx, &create_booking.Request{
		CustomerID: 43, ResourceID: e.resource.ID, OfferingID: e.offering.ID, StartTime: monday.Add(14 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, monday.Add(18*time.Hour), resp.EndTime)

	days, err = e.avail.ComputeDayAvailability(ctx, e.resource.ID, monday, monday)
	require.NoError(t, err)
	assert.Equal(t, domain.DayLimited, days[0].Status)

	_, err = e.cancel.Execute(ctx, &cancel_booking.Request{BookingID: bookingA, RequesterID: customerID, Reason: "moved"})
	require.NoError(t, err)

	slots, err := e.avail.ComputeSlots(ctx, e.resource.ID, monday, 30)
	require.NoError(t, err)
	for _, s := range slots {
		inA := !s.Start.Before(monday.Add(10*time.Hour)) && s.Start.Before(monday.Add(14*time.Hour))
		inB := !s.Start.Before(monday.Add(14 * time.Hour))
		switch {
		case inA:
			assert.True(t, s.IsAvailable, "slot %s must be released", s.Start.Format("15:04"))
		case inB:
			assert.False(t, s.IsAvailable, "slot %s belongs to the second booking", s.Start.Format("15:04"))
		}
	}
}
