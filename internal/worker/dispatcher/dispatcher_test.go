package dispatcher

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type failureCounter struct {
	mu     sync.Mutex
	failed []string
}

func (c *failureCounter) IncSideEffectFailure(task string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failed = append(c.failed, task)
}

func (c *failureCounter) names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.failed...)
}

func TestDispatcher_RunsAndDrains(t *testing.T) {
	d := New(3, 16, time.Second, nopLogger{}, &failureCounter{})
	d.Start()

	var done atomic.Int32
	for i := 0; i < 10; i++ {
		ok := d.Submit("count", func(ctx context.Context) error {
			done.Add(1)
			return nil
		})
		require.True(t, ok)
	}

	require.NoError(t, d.Stop(context.Background()))
	assert.Equal(t, int32(10), done.Load())
}

func TestDispatcher_FailuresAreCountedNotPropagated(t *testing.T) {
	counter := &failureCounter{}
	d := New(1, 4, time.Second, nopLogger{}, counter)
	d.Start()

	d.Submit("calendar.create", func(ctx context.Context) error { return errors.New("calendar down") })
	d.Submit("notify.confirmation", func(ctx context.Context) error { panic("boom") })

	require.NoError(t, d.Stop(context.Background()))
	assert.ElementsMatch(t, []string{"calendar.create", "notify.confirmation"}, counter.names())
}

func TestDispatcher_QueueFullDropsTask(t *testing.T) {
	counter := &failureCounter{}
	d := New(1, 1, time.Second, nopLogger{}, counter)
	d.Start()

	block := make(chan struct{})
	started := make(chan struct{})
	require.True(t, d.Submit("blocker", func(ctx context.Context) error {
		close(started)
		<-block
		return nil
	}))
	<-started

	require.True(t, d.Submit("queued", func(ctx context.Context) error { return nil }))
	assert.False(t, d.Submit("dropped", func(ctx context.Context) error { return nil }))

	close(block)
	require.NoError(t, d.Stop(context.Background()))
	assert.Equal(t, []string{"dropped"}, counter.names())
}

func TestDispatcher_SubmitAfterStop(t *testing.T) {
	d := New(1, 1, 0, nopLogger{}, &failureCounter{})
	d.Start()
	require.NoError(t, d.Stop(context.Background()))

	assert.False(t, d.Submit("late", func(ctx context.Context) error { return nil }))
	assert.ErrorIs(t, d.Stop(context.Background()), ErrStopped)
}

func TestDispatcher_StopWithoutStart(t *testing.T) {
	d := New(2, 4, 0, nopLogger{}, &failureCounter{})

	require.NotPanics(t, func() {
		require.NoError(t, d.Stop(context.Background()))
	})
	assert.False(t, d.Submit("late", func(ctx context.Context) error { return nil }))
}

func TestDispatcher_StopTimeoutCancelsTasks(t *testing.T) {
	d := New(1, 1, 0, nopLogger{}, &failureCounter{})
	d.Start()

	started := make(chan struct{})
	d.Submit("slow", func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	})
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := d.Stop(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
