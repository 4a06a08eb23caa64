package reschedule_booking_test

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
	"github.com/inksync/studio-booking/internal/integrations/calendar"
	"github.com/inksync/studio-booking/internal/service/availability"
	"github.com/inksync/studio-booking/internal/usecase/reschedule_booking"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type moveRecorder struct {
	previous []domain.Interval
}

func (m *moveRecorder) BookingRescheduled(_ context.Context, _ *domain.Booking, _ *domain.Resource, previous domain.Interval) {
	m.previous = append(m.previous, previous)
}

type counter map[string]int

func (c counter) IncBookings(result string) { c[result]++ }

var monday = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func at(hour int) time.Time { return monday.Add(time.Duration(hour) * time.Hour) }

type env struct {
	uc       *reschedule_booking.UseCase
	bookings *memory.BookingRepository
	moves    *moveRecorder
	metrics  counter
	resource *domain.Resource
	offering *domain.ServiceOffering
}

func newEnv(t *testing.T) *env {
	t.Helper()
	return newEnvWithLocker(t, lock.NewMemoryLocker())
}

func newEnvWithLocker(t *testing.T, locker reschedule_booking.ResourceLocker) *env {
	t.Helper()
	ctx := context.Background()

	store := memory.NewStore()
	resources := memory.NewResourceRepository(store)
	offerings := memory.NewOfferingRepository(store)
	bookings := memory.NewBookingRepository(store)

	res, err := resources.Create(ctx, &domain.Resource{
		UserID: 500, Name: "Ada", IsAvailable: true, WorkingHours: domain.DefaultWorkingHours(),
	})
	require.NoError(t, err)
	offering, err := offerings.Create(ctx, &domain.ServiceOffering{
		ResourceID: res.ID, Name: "Half day", DurationMinutes: 240, IsActive: true,
	})
	require.NoError(t, err)

	avail := availability.NewService(resources, bookings, calendar.NewMemoryAdapter(), cache.Noop{},
		availability.Config{Location: time.UTC}, nopLogger{})

	e := &env{bookings: bookings, moves: &moveRecorder{}, metrics: counter{}, resource: res, offering: offering}
	e.uc = reschedule_booking.NewUseCase(
		bookings, resources, offerings, avail,
		locker, memory.NewTxManager(store),
		e.moves, e.metrics, nopLogger{},
	)
	e.uc.SetTimeProvider(fixedClock{now: monday.Add(-24 * time.Hour)})
	return e
}

func (e *env) book(t *testing.T, customerID, offeringID int64, startHour, endHour int) *domain.Booking {
	t.Helper()
	b, err := e.bookings.Create(context.Background(), &domain.Booking{
		CustomerID: customerID,
		ResourceID: e.resource.ID,
		OfferingID: offeringID,
		StartTime:  at(startHour),
		EndTime:    at(endHour),
		Status:     domain.StatusScheduled,
	})
	require.NoError(t, err)
	return b
}

func TestExecute_MovesWithOfferingDuration(t *testing.T) {
	e := newEnv(t)
	b := e.book(t, 42, e.offering.ID, 10, 12)

	resp, err := e.uc.Execute(context.Background(), &reschedule_booking.Request{
		BookingID: b.ID, RequesterID: 42, NewStartTime: at(13),
	})
	require.NoError(t, err)

	assert.True(t, resp.StartTime.Equal(at(13)))
	assert.True(t, resp.EndTime.Equal(at(17)))
	assert.Equal(t, []domain.Interval{{Start: at(10), End: at(12)}}, e.moves.previous)
	assert.Equal(t, 1, e.metrics["rescheduled"])

	stored, err := e.bookings.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.True(t, stored.StartTime.Equal(at(13)))
}

func TestExecute_OverlapWithItselfIsIgnored(t *testing.T) {
	e := newEnv(t)
	b := e.book(t, 42, e.offering.ID, 10, 14)

	resp, err := e.uc.Execute(context.Background(), &reschedule_booking.Request{
		BookingID: b.ID, RequesterID: 500, NewStartTime: at(11),
	})
	require.NoError(t, err)
	assert.True(t, resp.EndTime.Equal(at(15)))
}

func TestExecute_KeepsDurationWithoutOffering(t *testing.T) {
	e := newEnv(t)
	b := e.book(t, 42, 999, 10, 12)

	resp, err := e.uc.Execute(context.Background(), &reschedule_booking.Request{
		BookingID: b.ID, RequesterID: 42, NewStartTime: at(15),
	})
	require.NoError(t, err)
	assert.True(t, resp.EndTime.Equal(at(17)))
}

func TestExecute_Rejected(t *testing.T) {
	tests := []struct {
		name      string
		requester int64
		start     time.Time
		now       time.Time
		prepare   func(t *testing.T, e *env, b *domain.Booking)
		want      error
	}{
		{name: "missing start", requester: 42, want: reschedule_booking.ErrInvalidInput},
		{name: "stranger", requester: 7, start: at(13), want: reschedule_booking.ErrAccessDenied},
		{name: "past", requester: 42, start: at(10), now: at(12), want: reschedule_booking.ErrStartInPast},
		{name: "after closing", requester: 42, start: at(16), want: reschedule_booking.ErrOutsideWorkingHours},
		{name: "sunday", requester: 42, start: at(6*24 + 10), want: reschedule_booking.ErrOutsideWorkingHours},
		{
			name: "overlap", requester: 42, start: at(11), want: reschedule_booking.ErrSlotNotAvailable,
			prepare: func(t *testing.T, e *env, _ *domain.Booking) { e.book(t, 43, e.offering.ID, 14, 15) },
		},
		{
			name: "cancelled", requester: 42, start: at(13), want: reschedule_booking.ErrCannotReschedule,
			prepare: func(t *testing.T, e *env, b *domain.Booking) {
				require.NoError(t, e.bookings.Cancel(context.Background(), b.ID, "sick", monday))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			b := e.book(t, 42, e.offering.ID, 9, 10)
			if tt.prepare != nil {
				tt.prepare(t, e, b)
			}
			if !tt.now.IsZero() {
				e.uc.SetTimeProvider(fixedClock{now: tt.now})
			}

			_, err := e.uc.Execute(context.Background(), &reschedule_booking.Request{
				BookingID: b.ID, RequesterID: tt.requester, NewStartTime: tt.start,
			})
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, e.moves.previous)
		})
	}
}

func TestExecute_NotFound(t *testing.T) {
	e := newEnv(t)

	_, err := e.uc.Execute(context.Background(), &reschedule_booking.Request{
		BookingID: 404, RequesterID: 42, NewStartTime: at(13),
	})
	assert.ErrorIs(t, err, reschedule_booking.ErrBookingNotFound)
}

type expiredLocker struct{}

func (expiredLocker) WithResourceLock(context.Context, int64, func(ctx context.Context) error) error {
	return lock.ErrLockNotAcquired
}

func TestExecute_LockWaitExpiredIsSlotConflict(t *testing.T) {
	e := newEnvWithLocker(t, expiredLocker{})
	b := e.book(t, 42, e.offering.ID, 10, 12)

	_, err := e.uc.Execute(context.Background(), &reschedule_booking.Request{
		BookingID: b.ID, RequesterID: 42, NewStartTime: at(13),
	})
	assert.ErrorIs(t, err, reschedule_booking.ErrSlotNotAvailable)
	assert.Equal(t, 1, e.metrics["conflict"])
	assert.Empty(t, e.moves.previous)
}
