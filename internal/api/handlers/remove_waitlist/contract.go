package remove_waitlist

import "context"

type WaitlistService interface {
	Remove(ctx context.Context, entryID, customerID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
