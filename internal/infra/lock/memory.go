package lock

import (
	"context"
	"sync"
)

// Locker сериализует операции над одним ресурсом
type Locker interface {
	WithResourceLock(ctx context.Context, resourceID int64, fn func(ctx context.Context) error) error
}

// MemoryLocker блокировки по ресурсу в пределах одного процесса
type MemoryLocker struct {
	mu    sync.Mutex
	locks map[int64]*keyedLock
}

type keyedLock struct {
	ch   chan struct{}
	refs int
}

// NewMemoryLocker создает локер
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{locks: make(map[int64]*keyedLock)}
}

// WithResourceLock выполняет fn, удерживая блокировку ресурса.
// Ожидание прерывается отменой контекста.
func (l *MemoryLocker) WithResourceLock(ctx context.Context, resourceID int64, fn func(ctx context.Context) error) error {
	entry := l.ref(resourceID)
	defer l.unref(resourceID)

	select {
	case entry.ch <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-entry.ch }()

	return fn(ctx)
}

func (l *MemoryLocker) ref(resourceID int64) *keyedLock {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.locks[resourceID]
	if !ok {
		entry = &keyedLock{ch: make(chan struct{}, 1)}
		l.locks[resourceID] = entry
	}
	entry.refs++
	return entry
}

func (l *MemoryLocker) unref(resourceID int64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := l.locks[resourceID]
	entry.refs--
	if entry.refs == 0 {
		delete(l.locks, resourceID)
	}
}
