package cache_test

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inksync/studio-booking/internal/domain"
	"github.com/inksync/studio-booking/internal/infra/cache"
	"github.com/inksync/studio-booking/internal/infra/storage/memory"
	"github.com/inksync/studio-booking/internal/integrations/calendar"
	"github.com/inksync/studio-booking/internal/service/availability"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// fakeRedis хранит строки в памяти и отвечает командами go-redis
type fakeRedis struct {
	mu   sync.Mutex
	data map[string]string
	down bool
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: make(map[string]string)}
}

var errConnRefused = errors.New("dial tcp 127.0.0.1:6379: connection refused")

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()

	cmd := redis.NewStringCmd(ctx, "get", key)
	switch v, ok := f.data[key]; {
	case f.down:
		cmd.SetErr(errConnRefused)
	case !ok:
		cmd.SetErr(redis.Nil)
	default:
		cmd.SetVal(v)
	}
	return cmd
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()

	cmd := redis.NewStatusCmd(ctx, "set", key)
	if f.down {
		cmd.SetErr(errConnRefused)
		return cmd
	}
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	}
	cmd.SetVal("OK")
	return cmd
}

func (f *fakeRedis) Incr(ctx context.Context, key string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()

	cmd := redis.NewIntCmd(ctx, "incr", key)
	if f.down {
		cmd.SetErr(errConnRefused)
		return cmd
	}
	n, _ := strconv.ParseInt(f.data[key], 10, 64)
	n++
	f.data[key] = strconv.FormatInt(n, 10)
	cmd.SetVal(n)
	return cmd
}

var monday = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func countingLoad(calls *int, status domain.DayStatus) func(context.Context) ([]domain.DayAvailability, error) {
	return func(context.Context) ([]domain.DayAvailability, error) {
		*calls++
		return []domain.DayAvailability{{Date: monday, Status: status, WorkingMinutes: 540}}, nil
	}
}

func TestAvailabilityCache_HitAndInvalidate(t *testing.T) {
	ctx := context.Background()
	c := cache.NewAvailabilityCache(newFakeRedis(), time.Minute, nopLogger{})

	var calls int
	days, err := c.GetOrLoadDays(ctx, 1, monday, monday, countingLoad(&calls, domain.DayLimited))
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, domain.DayLimited, days[0].Status)

	days, err = c.GetOrLoadDays(ctx, 1, monday, monday, countingLoad(&calls, domain.DayAvailable))
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "second read is served from cache")
	assert.Equal(t, domain.DayLimited, days[0].Status)
	assert.Equal(t, 540, days[0].WorkingMinutes)

	// Другой ресурс кэшируется отдельно
	_, err = c.GetOrLoadDays(ctx, 2, monday, monday, countingLoad(&calls, domain.DayAvailable))
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	require.NoError(t, c.Invalidate(ctx, 1))

	days, err = c.GetOrLoadDays(ctx, 1, monday, monday, countingLoad(&calls, domain.DayAvailable))
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, domain.DayAvailable, days[0].Status)
}

func TestAvailabilityCache_RedisDownFallsBackToLoad(t *testing.T) {
	ctx := context.Background()
	rdb := newFakeRedis()
	rdb.down = true
	c := cache.NewAvailabilityCache(rdb, time.Minute, nopLogger{})

	var calls int
	for i := 0; i < 2; i++ {
		days, err := c.GetOrLoadDays(ctx, 1, monday, monday, countingLoad(&calls, domain.DayAvailable))
		require.NoError(t, err)
		assert.Len(t, days, 1)
	}
	assert.Equal(t, 2, calls)
	assert.Error(t, c.Invalidate(ctx, 1))
}

func TestAvailabilityCache_LoadErrorIsNotCached(t *testing.T) {
	ctx := context.Background()
	c := cache.NewAvailabilityCache(newFakeRedis(), time.Minute, nopLogger{})

	boom := errors.New("storage down")
	_, err := c.GetOrLoadDays(ctx, 1, monday, monday, func(context.Context) ([]domain.DayAvailability, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	var calls int
	_, err = c.GetOrLoadDays(ctx, 1, monday, monday, countingLoad(&calls, domain.DayAvailable))
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestAvailabilityCache_CancelReleasesInterval(t *testing.T) {
	ctx := context.Background()

	store := memory.NewStore()
	resources := memory.NewResourceRepository(store)
	bookings := memory.NewBookingRepository(store)
	res, err := resources.Create(ctx, &domain.Resource{
		UserID: 10, Name: "Ada", IsAvailable: true, WorkingHours: domain.DefaultWorkingHours(),
	})
	require.NoError(t, err)

	dayCache := cache.NewAvailabilityCache(newFakeRedis(), time.Minute, nopLogger{})
	svc := availability.NewService(resources, bookings, calendar.NewMemoryAdapter(), dayCache, availability.Config{
		Location:           time.UTC,
		LimitedThreshold:   0.5,
		DefaultGranularity: 30,
		MaxRangeDays:       62,
	}, nopLogger{})

	b, err := bookings.Create(ctx, &domain.Booking{
		CustomerID: 1, ResourceID: res.ID, OfferingID: 1,
		StartTime: monday.Add(9 * time.Hour), EndTime: monday.Add(18 * time.Hour),
		Status: domain.StatusScheduled,
	})
	require.NoError(t, err)

	statusOf := func() domain.DayStatus {
		days, err := svc.ComputeDayAvailability(ctx, res.ID, monday, monday)
		require.NoError(t, err)
		require.Len(t, days, 1)
		return days[0].Status
	}

	assert.Equal(t, domain.DayUnavailable, statusOf())

	require.NoError(t, bookings.Cancel(ctx, b.ID, "client ill", monday))
	assert.Equal(t, domain.DayUnavailable, statusOf(), "stale until the version is bumped")

	require.NoError(t, dayCache.Invalidate(ctx, res.ID))
	assert.Equal(t, domain.DayAvailable, statusOf())
}
