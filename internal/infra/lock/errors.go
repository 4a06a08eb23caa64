package lock

import "errors"

var (
	// ErrLockNotAcquired не удалось взять блокировку за отведенное время
	ErrLockNotAcquired = errors.New("lock: resource lock not acquired")
)
