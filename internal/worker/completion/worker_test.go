package completion

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type countingCompleter struct {
	calls atomic.Int32
	err   error
}

func (c *countingCompleter) CompleteEnded(ctx context.Context) (int, error) {
	c.calls.Add(1)
	return 1, c.err
}

func TestWorker_RunsImmediatelyAndOnTicker(t *testing.T) {
	completer := &countingCompleter{}
	w := New(completer, 10*time.Millisecond, nopLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return completer.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}

func TestWorker_KeepsRunningAfterError(t *testing.T) {
	completer := &countingCompleter{err: errors.New("db unavailable")}
	w := New(completer, 5*time.Millisecond, nopLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	assert.Eventually(t, func() bool { return completer.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
}
