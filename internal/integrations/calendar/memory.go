package calendar

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/inksync/studio-booking/internal/domain"
)

// MemoryAdapter календарь в памяти процесса.
// Используется в тестах и при calendar.mode = "memory".
type MemoryAdapter struct {
	mu     sync.Mutex
	nextID int
	events map[string]map[string]BusyInterval // calendarID -> eventID -> интервал
	// FailWith, если задан, возвращается из всех методов
	FailWith error
}

// NewMemoryAdapter создает адаптер
func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{events: make(map[string]map[string]BusyInterval)}
}

// AddBusy добавляет внешнее событие (например, личную встречу мастера)
func (m *MemoryAdapter) AddBusy(calendarID string, interval domain.Interval) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insert(calendarID, interval)
}

// Events возвращает события календаря по возрастанию начала
func (m *MemoryAdapter) Events(calendarID string) []BusyInterval {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]BusyInterval, 0, len(m.events[calendarID]))
	for _, ev := range m.events[calendarID] {
		out = append(out, ev)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

// GetBusyIntervals возвращает события, пересекающиеся с [from, to)
func (m *MemoryAdapter) GetBusyIntervals(_ context.Context, resource *domain.Resource, from, to time.Time) ([]BusyInterval, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	if !resource.HasCalendar() {
		return nil, nil
	}

	window := domain.Interval{Start: from, End: to}
	var out []BusyInterval
	for _, ev := range m.Events(*resource.CalendarID) {
		if window.Overlaps(domain.Interval{Start: ev.Start, End: ev.End}) {
			out = append(out, ev)
		}
	}
	return out, nil
}

// CreateEvent добавляет зеркальное событие
func (m *MemoryAdapter) CreateEvent(_ context.Context, resource *domain.Resource, interval domain.Interval, _ EventMetadata) (string, error) {
	if m.FailWith != nil {
		return "", m.FailWith
	}
	if !resource.HasCalendar() {
		return "", nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insert(*resource.CalendarID, interval), nil
}

// UpdateEvent переносит событие
func (m *MemoryAdapter) UpdateEvent(_ context.Context, resource *domain.Resource, eventID string, interval domain.Interval, _ EventMetadata) error {
	if m.FailWith != nil {
		return m.FailWith
	}
	if !resource.HasCalendar() || eventID == "" {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	events := m.events[*resource.CalendarID]
	if _, ok := events[eventID]; !ok {
		return ErrEventNotFound
	}
	events[eventID] = BusyInterval{Start: interval.Start, End: interval.End, EventID: eventID}
	return nil
}

// DeleteEvent удаляет событие
func (m *MemoryAdapter) DeleteEvent(_ context.Context, resource *domain.Resource, eventID string) error {
	if m.FailWith != nil {
		return m.FailWith
	}
	if !resource.HasCalendar() || eventID == "" {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.events[*resource.CalendarID], eventID)
	return nil
}

func (m *MemoryAdapter) insert(calendarID string, interval domain.Interval) string {
	m.nextID++
	id := fmt.Sprintf("evt-%d", m.nextID)
	if m.events[calendarID] == nil {
		m.events[calendarID] = make(map[string]BusyInterval)
	}
	m.events[calendarID][id] = BusyInterval{Start: interval.Start, End: interval.End, EventID: id}
	return id
}
