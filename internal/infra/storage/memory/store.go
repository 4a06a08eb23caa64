// Package memory хранилище в памяти процесса.
// Используется в тестах и при storage.driver = "memory".
// Возвращает те же sentinel-ошибки, что и Postgres репозитории.
package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/inksync/studio-booking/internal/domain"
)

type state struct {
	resources map[int64]domain.Resource
	offerings map[int64]domain.ServiceOffering
	bookings  map[int64]domain.Booking
	waitlist  map[int64]domain.WaitlistEntry

	nextResourceID int64
	nextOfferingID int64
	nextBookingID  int64
	nextWaitlistID int64
}

func newState() *state {
	return &state{
		resources: make(map[int64]domain.Resource),
		offerings: make(map[int64]domain.ServiceOffering),
		bookings:  make(map[int64]domain.Booking),
		waitlist:  make(map[int64]domain.WaitlistEntry),
	}
}

func (s *state) clone() *state {
	c := *s
	c.resources = maps.Clone(s.resources)
	c.offerings = maps.Clone(s.offerings)
	c.bookings = maps.Clone(s.bookings)
	c.waitlist = maps.Clone(s.waitlist)
	return &c
}

type txKey struct{}

// Store общее состояние всех in-memory репозиториев.
//
// Писатель всегда один (writeMu): транзакция работает на копии состояния
// и публикует её целиком при коммите. Читатели вне транзакции видят
// только зафиксированное состояние.
type Store struct {
	writeMu   sync.Mutex
	mu        sync.RWMutex
	committed *state
	now       func() time.Time
}

// NewStore создает пустое хранилище
func NewStore() *Store {
	return &Store{committed: newState(), now: time.Now}
}

// SetClock подменяет источник времени для created_at / updated_at
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

func (s *Store) read(ctx context.Context, fn func(st *state) error) error {
	if st, ok := ctx.Value(txKey{}).(*state); ok {
		return fn(st)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.committed)
}

func (s *Store) write(ctx context.Context, fn func(st *state) error) error {
	if st, ok := ctx.Value(txKey{}).(*state); ok {
		return fn(st)
	}
	return s.runTx(ctx, func(txCtx context.Context) error {
		return fn(txCtx.Value(txKey{}).(*state))
	})
}

func (s *Store) runTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*state); ok {
		return fn(ctx)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	work := s.committed.clone()
	s.mu.RUnlock()

	if err := fn(context.WithValue(ctx, txKey{}, work)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.committed = work
	s.mu.Unlock()
	return nil
}

// TxManager менеджер транзакций поверх Store
type TxManager struct {
	store *Store
}

// NewTxManager создает менеджер транзакций
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

// Do выполняет fn атомарно
func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.store.runTx(ctx, fn)
}

// DoSerializable выполняет fn атомарно, писатели полностью сериализованы
func (m *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.store.runTx(ctx, fn)
}

// DoReadOnly выполняет fn на снимке зафиксированного состояния
func (m *TxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*state); ok {
		return fn(ctx)
	}
	m.store.mu.RLock()
	snapshot := m.store.committed.clone()
	m.store.mu.RUnlock()
	return fn(context.WithValue(ctx, txKey{}, snapshot))
}
