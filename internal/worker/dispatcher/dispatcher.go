package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrStopped возвращается из Stop при повторном вызове
var ErrStopped = errors.New("dispatcher: already stopped")

// Task побочная задача, выполняемая после фиксации транзакции
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Dispatcher пул воркеров для best-effort побочных эффектов
// (календарь, уведомления, советник, события).
// Ошибки задач логируются и считаются в метриках, вызывающему не возвращаются.
type Dispatcher struct {
	queue   chan Task
	workers int
	timeout time.Duration
	logger  Logger
	metrics Metrics

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
	baseCtx context.Context
	cancel  context.CancelFunc
}

// New создает диспетчер. Воркеры запускаются через Start.
func New(workers, queueSize int, timeout time.Duration, logger Logger, metrics Metrics) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 1
	}
	baseCtx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		queue:   make(chan Task, queueSize),
		workers: workers,
		timeout: timeout,
		logger:  logger,
		metrics: metrics,
		baseCtx: baseCtx,
		cancel:  cancel,
	}
}

// Start запускает воркеры
func (d *Dispatcher) Start() {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}
	d.logger.Info("Dispatcher: started %d workers, queue size %d", d.workers, cap(d.queue))
}

// Submit ставит задачу в очередь без ожидания.
// При переполненной очереди задача отбрасывается с предупреждением.
func (d *Dispatcher) Submit(name string, run func(ctx context.Context) error) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stopped {
		d.logger.Warn("Dispatcher: task %s dropped, dispatcher stopped", name)
		d.metrics.IncSideEffectFailure(name)
		return false
	}

	select {
	case d.queue <- Task{Name: name, Run: run}:
		return true
	default:
		d.logger.Warn("Dispatcher: queue is full, task %s dropped", name)
		d.metrics.IncSideEffectFailure(name)
		return false
	}
}

// Stop закрывает очередь и ждет выполнения оставшихся задач.
// Если ctx истекает раньше, текущие задачи отменяются.
// Безопасен и без предшествующего Start.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return ErrStopped
	}
	d.stopped = true
	close(d.queue)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.cancel()
		d.logger.Info("Dispatcher: stopped")
		return nil
	case <-ctx.Done():
		d.cancel()
		<-done
		return fmt.Errorf("dispatcher: stop interrupted: %w", ctx.Err())
	}
}

func (d *Dispatcher) worker(id int) {
	defer d.wg.Done()
	for task := range d.queue {
		d.run(id, task)
	}
}

func (d *Dispatcher) run(id int, task Task) {
	ctx := d.baseCtx
	var cancel context.CancelFunc = func() {}
	if d.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
	}
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Dispatcher[%d]: task %s panicked: %v", id, task.Name, r)
			d.metrics.IncSideEffectFailure(task.Name)
		}
	}()

	start := time.Now()
	if err := task.Run(ctx); err != nil {
		d.logger.Error("Dispatcher[%d]: task %s failed after %s: %v", id, task.Name, time.Since(start), err)
		d.metrics.IncSideEffectFailure(task.Name)
	}
}
