package create_booking_test

import (
	"context"
	"errors"
	"sync"
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
	"github.com/inksync/studio-booking/internal/usecase/create_booking"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type recordingEffects struct {
	mu      sync.Mutex
	created []*domain.Booking
}

func (e *recordingEffects) BookingCreated(_ context.Context, b *domain.Booking, _ *domain.Resource) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.created = append(e.created, b)
}

type countingMetrics struct {
	mu     sync.Mutex
	counts map[string]int
}

func (m *countingMetrics) IncBookings(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counts == nil {
		m.counts = make(map[string]int)
	}
	m.counts[result]++
}

// 2025-03-10 понедельник, рабочее окно 09:00-18:00
var monday = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

type env struct {
	uc        *create_booking.UseCase
	store     *memory.Store
	bookings  *memory.BookingRepository
	waitlist  *memory.WaitlistRepository
	calendar  *calendar.MemoryAdapter
	effects   *recordingEffects
	metrics   *countingMetrics
	resource  *domain.Resource
	offering  *domain.ServiceOffering
	secondRes *domain.Resource
}

func newEnv(t *testing.T) *env {
	t.Helper()
	return newEnvWithLocker(t, lock.NewMemoryLocker())
}

func newEnvWithLocker(t *testing.T, locker create_booking.ResourceLocker) *env {
	t.Helper()
	ctx := context.Background()

	store := memory.NewStore()
	resources := memory.NewResourceRepository(store)
	offerings := memory.NewOfferingRepository(store)
	bookings := memory.NewBookingRepository(store)
	waitlist := memory.NewWaitlistRepository(store)
	cal := calendar.NewMemoryAdapter()

	calendarID := "ada"
	res, err := resources.Create(ctx, &domain.Resource{
		UserID: 500, Name: "Ada", IsAvailable: true, CalendarID: &calendarID,
		WorkingHours: domain.DefaultWorkingHours(),
	})
	require.NoError(t, err)
	other, err := resources.Create(ctx, &domain.Resource{
		UserID: 501, Name: "Bo", IsAvailable: true, WorkingHours: domain.DefaultWorkingHours(),
	})
	require.NoError(t, err)

	price := 400.0
	offering, err := offerings.Create(ctx, &domain.ServiceOffering{
		ResourceID: res.ID, Name: "Half day", DurationMinutes: 240, Price: &price, IsActive: true,
	})
	require.NoError(t, err)

	avail := availability.NewService(resources, bookings, cal, cache.Noop{}, availability.Config{Location: time.UTC}, nopLogger{})
	effects := &recordingEffects{}
	metrics := &countingMetrics{}

	uc := create_booking.NewUseCase(
		bookings, resources, offerings, waitlist,
		avail, locker, memory.NewTxManager(store),
		effects, metrics, nopLogger{},
	)
	uc.SetTimeProvider(fixedClock{now: monday.Add(-24 * time.Hour)})

	return &env{
		uc: uc, store: store, bookings: bookings, waitlist: waitlist, calendar: cal,
		effects: effects, metrics: metrics, resource: res, offering: offering, secondRes: other,
	}
}

func (e *env) request(startHour int) *create_booking.Request {
	return &create_booking.Request{
		CustomerID: 42,
		ResourceID: e.resource.ID,
		OfferingID: e.offering.ID,
		StartTime:  monday.Add(time.Duration(startHour) * time.Hour),
	}
}

func TestExecute_Success(t *testing.T) {
	e := newEnv(t)
	notes := "left forearm"
	req := e.request(14)
	req.Notes = &notes

	resp, err := e.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, monday.Add(18*time.Hour), resp.EndTime, "session must end exactly at closing")
	assert.Equal(t, 240, resp.DurationMinutes)
	assert.Equal(t, "scheduled", resp.Status)
	assert.Equal(t, "Half day", resp.OfferingName)
	require.NotNil(t, resp.OfferingPrice)
	assert.Equal(t, 400.0, *resp.OfferingPrice)
	require.Len(t, e.effects.created, 1)
	assert.Equal(t, 1, e.metrics.counts["created"])
}

func TestExecute_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(e *env, r *create_booking.Request)
		wantErr error
	}{
		{
			name:    "missing customer",
			mutate:  func(_ *env, r *create_booking.Request) { r.CustomerID = 0 },
			wantErr: create_booking.ErrInvalidInput,
		},
		{
			name:    "unknown resource",
			mutate:  func(_ *env, r *create_booking.Request) { r.ResourceID = 999 },
			wantErr: create_booking.ErrResourceNotFound,
		},
		{
			name:    "unknown offering",
			mutate:  func(_ *env, r *create_booking.Request) { r.OfferingID = 999 },
			wantErr: create_booking.ErrOfferingNotFound,
		},
		{
			name:    "offering of another resource",
			mutate:  func(e *env, r *create_booking.Request) { r.ResourceID = e.secondRes.ID },
			wantErr: create_booking.ErrOfferingMismatch,
		},
		{
			name:    "past start",
			mutate:  func(_ *env, r *create_booking.Request) { r.StartTime = monday.Add(-48 * time.Hour) },
			wantErr: create_booking.ErrStartInPast,
		},
		{
			name:    "runs past closing",
			mutate:  func(_ *env, r *create_booking.Request) { r.StartTime = monday.Add(15 * time.Hour) },
			wantErr: create_booking.ErrOutsideWorkingHours,
		},
		{
			name:    "starts before opening",
			mutate:  func(_ *env, r *create_booking.Request) { r.StartTime = monday.Add(8 * time.Hour) },
			wantErr: create_booking.ErrOutsideWorkingHours,
		},
		{
			name:    "day off",
			mutate:  func(_ *env, r *create_booking.Request) { r.StartTime = monday.AddDate(0, 0, 5).Add(10 * time.Hour) },
			wantErr: create_booking.ErrOutsideWorkingHours,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			req := e.request(10)
			tt.mutate(e, req)

			_, err := e.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, e.effects.created)
		})
	}
}

func TestExecute_ResourceNotAccepting(t *testing.T) {
	e := newEnv(t)
	resources := memory.NewResourceRepository(e.store)
	e.resource.IsAvailable = false
	_, err := resources.Update(context.Background(), e.resource)
	require.NoError(t, err)

	_, err = e.uc.Execute(context.Background(), e.request(10))
	assert.ErrorIs(t, err, create_booking.ErrResourceUnavailable)
}

func TestExecute_OverlapRejected(t *testing.T) {
	e := newEnv(t)

	_, err := e.uc.Execute(context.Background(), e.request(10))
	require.NoError(t, err)

	_, err = e.uc.Execute(context.Background(), e.request(12))
	assert.ErrorIs(t, err, create_booking.ErrSlotNotAvailable)
	assert.Equal(t, 1, e.metrics.counts["conflict"])

	_, err = e.uc.Execute(context.Background(), e.request(14))
	assert.NoError(t, err, "adjacent session must be accepted")
}

// expiredLocker не дожидается блокировки, как RedisLocker при истекшем lock_wait
type expiredLocker struct{}

func (expiredLocker) WithResourceLock(context.Context, int64, func(ctx context.Context) error) error {
	return lock.ErrLockNotAcquired
}

func TestExecute_LockWaitExpiredIsSlotConflict(t *testing.T) {
	e := newEnvWithLocker(t, expiredLocker{})

	_, err := e.uc.Execute(context.Background(), e.request(10))
	assert.ErrorIs(t, err, create_booking.ErrSlotNotAvailable)
	assert.NotErrorIs(t, err, create_booking.ErrInternal)
	assert.Equal(t, 1, e.metrics.counts["conflict"])
	assert.Empty(t, e.effects.created)
}

func TestExecute_ExternalCalendarConflict(t *testing.T) {
	e := newEnv(t)
	e.calendar.AddBusy("ada", domain.Interval{Start: monday.Add(11 * time.Hour), End: monday.Add(12 * time.Hour)})

	_, err := e.uc.Execute(context.Background(), e.request(10))
	assert.ErrorIs(t, err, create_booking.ErrSlotNotAvailable)
}

func TestExecute_CalendarDownDoesNotBlock(t *testing.T) {
	e := newEnv(t)
	e.calendar.FailWith = errors.New("calendar down")

	_, err := e.uc.Execute(context.Background(), e.request(10))
	assert.NoError(t, err)
}

func TestExecute_ConcurrentRequestsExactlyOneWins(t *testing.T) {
	e := newEnv(t)

	const workers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(customer int64) {
			defer wg.Done()
			req := e.request(10)
			req.CustomerID = customer
			<-start

			_, err := e.uc.Execute(context.Background(), req)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, create_booking.ErrSlotNotAvailable):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(int64(100 + i))
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, conflicts)

	list, err := e.bookings.List(context.Background(), domain.BookingsFilter{ResourceID: &e.resource.ID})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestExecute_FromWaitlistEntry(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	entry, err := e.waitlist.Create(ctx, &domain.WaitlistEntry{CustomerID: 42, Description: "sleeve", IsActive: true})
	require.NoError(t, err)

	req := e.request(10)
	req.WaitlistEntryID = &entry.ID
	resp, err := e.uc.Execute(ctx, req)
	require.NoError(t, err)

	got, err := e.waitlist.GetByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	require.NotNil(t, got.PromotedBookingID)
	assert.Equal(t, resp.ID, *got.PromotedBookingID)

	// Повторное использование заявки запрещено
	req = e.request(14)
	req.WaitlistEntryID = &entry.ID
	_, err = e.uc.Execute(ctx, req)
	assert.ErrorIs(t, err, create_booking.ErrInvalidWaitlistEntry)
}

func TestExecute_ForeignWaitlistEntry(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	entry, err := e.waitlist.Create(ctx, &domain.WaitlistEntry{CustomerID: 7, Description: "koi", IsActive: true})
	require.NoError(t, err)

	req := e.request(10)
	req.WaitlistEntryID = &entry.ID
	_, err = e.uc.Execute(ctx, req)
	assert.ErrorIs(t, err, create_booking.ErrInvalidWaitlistEntry)

	list, err := e.bookings.List(ctx, domain.BookingsFilter{})
	require.NoError(t, err)
	assert.Empty(t, list, "failed transaction must not leave a booking")
}
