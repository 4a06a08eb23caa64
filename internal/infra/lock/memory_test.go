package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLocker_SerializesSameResource(t *testing.T) {
	locker := NewMemoryLocker()

	var (
		inside  atomic.Int32
		maxSeen atomic.Int32
		wg      sync.WaitGroup
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := locker.WithResourceLock(context.Background(), 1, func(ctx context.Context) error {
				n := inside.Add(1)
				if n > maxSeen.Load() {
					maxSeen.Store(n)
				}
				time.Sleep(time.Millisecond)
				inside.Add(-1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxSeen.Load())
	assert.Empty(t, locker.locks, "lock entries must be released")
}

func TestMemoryLocker_IndependentResources(t *testing.T) {
	locker := NewMemoryLocker()
	entered := make(chan struct{})

	err := locker.WithResourceLock(context.Background(), 1, func(ctx context.Context) error {
		go func() {
			_ = locker.WithResourceLock(ctx, 2, func(context.Context) error {
				close(entered)
				return nil
			})
		}()
		select {
		case <-entered:
			return nil
		case <-time.After(time.Second):
			t.Fatal("lock on another resource must not wait")
			return nil
		}
	})
	require.NoError(t, err)
}

func TestMemoryLocker_ContextCancelWhileWaiting(t *testing.T) {
	locker := NewMemoryLocker()
	release := make(chan struct{})
	held := make(chan struct{})

	go func() {
		_ = locker.WithResourceLock(context.Background(), 1, func(context.Context) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	called := false
	err := locker.WithResourceLock(ctx, 1, func(context.Context) error {
		called = true
		return nil
	})
	close(release)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, called)
}
