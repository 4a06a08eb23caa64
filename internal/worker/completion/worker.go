// Package completion периодически переводит прошедшие бронирования в completed.
package completion

import (
	"context"
	"time"
)

const runTimeout = 20 * time.Second

// Completer завершает бронирования, время которых прошло
type Completer interface {
	CompleteEnded(ctx context.Context) (int, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Worker запускает Completer по таймеру
type Worker struct {
	completer Completer
	interval  time.Duration
	logger    Logger
}

// New создает воркер
func New(completer Completer, interval time.Duration, logger Logger) *Worker {
	return &Worker{completer: completer, interval: interval, logger: logger}
}

// Run выполняет первый проход сразу, затем раз в interval, пока не отменен ctx
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("CompletionWorker: started, interval=%s", w.interval)
	w.runOnce(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("CompletionWorker: stopped")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

func (w *Worker) runOnce(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	start := time.Now()
	n, err := w.completer.CompleteEnded(runCtx)
	if err != nil {
		w.logger.Error("CompletionWorker: run failed: %v", err)
		return
	}
	if n > 0 {
		w.logger.Info("CompletionWorker: completed %d bookings in %s", n, time.Since(start))
	}
}
