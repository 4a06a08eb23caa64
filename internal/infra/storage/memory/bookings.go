package memory

import (
	"context"
	"sort"
	"time"

	"github.com/inksync/studio-booking/internal/domain"
	bookingRepo "github.com/inksync/studio-booking/internal/infra/storage/booking"
)

// BookingRepository in-memory репозиторий бронирований.
// Проверка пересечений в Create и Reschedule повторяет EXCLUDE constraint Postgres.
type BookingRepository struct {
	store *Store
}

// NewBookingRepository создает репозиторий бронирований
func NewBookingRepository(store *Store) *BookingRepository {
	return &BookingRepository{store: store}
}

// Create создает бронирование
func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	err := r.store.write(ctx, func(st *state) error {
		if b.IsActive() && overlapsActive(st, b.ResourceID, b.Interval(), 0) {
			return bookingRepo.ErrSlotNotAvailable
		}
		st.nextBookingID++
		now := r.store.now()
		b.ID = st.nextBookingID
		b.CreatedAt = now
		b.UpdatedAt = now
		st.bookings[b.ID] = *b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// GetByID получает бронирование по ID
func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var out domain.Booking
	err := r.store.read(ctx, func(st *state) error {
		b, ok := st.bookings[id]
		if !ok {
			return bookingRepo.ErrBookingNotFound
		}
		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// List получает бронирования по фильтру, отсортированные по времени начала
func (r *BookingRepository) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	out := make([]*domain.Booking, 0)
	err := r.store.read(ctx, func(st *state) error {
		for _, b := range st.bookings {
			if !filter.Matches(&b) {
				continue
			}
			out = append(out, &b)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortBookings(out)
	return out, nil
}

// Cancel переводит бронирование в cancelled
func (r *BookingRepository) Cancel(ctx context.Context, id int64, reason string, at time.Time) error {
	return r.transition(ctx, id, func(b *domain.Booking) error {
		b.Status = domain.StatusCancelled
		b.CancellationReason = &reason
		b.CancelledAt = &at
		b.UpdatedAt = at
		return nil
	})
}

// Complete переводит бронирование в completed
func (r *BookingRepository) Complete(ctx context.Context, id int64, at time.Time) error {
	return r.transition(ctx, id, func(b *domain.Booking) error {
		b.Status = domain.StatusCompleted
		b.CompletedAt = &at
		b.UpdatedAt = at
		return nil
	})
}

// Reschedule переносит бронирование
func (r *BookingRepository) Reschedule(ctx context.Context, id int64, start, end time.Time, at time.Time) error {
	return r.store.write(ctx, func(st *state) error {
		b, ok := st.bookings[id]
		if !ok {
			return bookingRepo.ErrBookingNotFound
		}
		if b.Status != domain.StatusScheduled {
			return bookingRepo.ErrInvalidTransition
		}
		if overlapsActive(st, b.ResourceID, domain.Interval{Start: start, End: end}, id) {
			return bookingRepo.ErrSlotNotAvailable
		}
		b.StartTime = start
		b.EndTime = end
		b.UpdatedAt = at
		st.bookings[id] = b
		return nil
	})
}

// SetExternalEventID сохраняет ID зеркального события
func (r *BookingRepository) SetExternalEventID(ctx context.Context, id int64, eventID *string) error {
	return r.store.write(ctx, func(st *state) error {
		b, ok := st.bookings[id]
		if !ok {
			return bookingRepo.ErrBookingNotFound
		}
		b.ExternalEventID = eventID
		st.bookings[id] = b
		return nil
	})
}

// CompleteEnded завершает все scheduled бронирования, закончившиеся до now
func (r *BookingRepository) CompleteEnded(ctx context.Context, now time.Time) ([]*domain.Booking, error) {
	out := make([]*domain.Booking, 0)
	err := r.store.write(ctx, func(st *state) error {
		for id, b := range st.bookings {
			if b.Status != domain.StatusScheduled || b.EndTime.After(now) {
				continue
			}
			b.Status = domain.StatusCompleted
			b.CompletedAt = &now
			b.UpdatedAt = now
			st.bookings[id] = b
			out = append(out, &b)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortBookings(out)
	return out, nil
}

func (r *BookingRepository) transition(ctx context.Context, id int64, apply func(b *domain.Booking) error) error {
	return r.store.write(ctx, func(st *state) error {
		b, ok := st.bookings[id]
		if !ok {
			return bookingRepo.ErrBookingNotFound
		}
		if b.Status != domain.StatusScheduled {
			return bookingRepo.ErrInvalidTransition
		}
		if err := apply(&b); err != nil {
			return err
		}
		st.bookings[id] = b
		return nil
	})
}

func overlapsActive(st *state, resourceID int64, interval domain.Interval, excludeID int64) bool {
	for _, other := range st.bookings {
		if other.ID == excludeID || other.ResourceID != resourceID || !other.IsActive() {
			continue
		}
		if other.Interval().Overlaps(interval) {
			return true
		}
	}
	return false
}

func sortBookings(bookings []*domain.Booking) {
	sort.Slice(bookings, func(i, j int) bool {
		if !bookings[i].StartTime.Equal(bookings[j].StartTime) {
			return bookings[i].StartTime.Before(bookings[j].StartTime)
		}
		return bookings[i].ID < bookings[j].ID
	})
}
