package memory

import (
	"context"
	"sort"
	"time"

	"github.com/inksync/studio-booking/internal/domain"
	waitlistRepo "github.com/inksync/studio-booking/internal/infra/storage/waitlist"
)

// WaitlistRepository in-memory репозиторий листа ожидания
type WaitlistRepository struct {
	store *Store
}

// NewWaitlistRepository создает репозиторий листа ожидания
func NewWaitlistRepository(store *Store) *WaitlistRepository {
	return &WaitlistRepository{store: store}
}

// Create создает заявку
func (r *WaitlistRepository) Create(ctx context.Context, e *domain.WaitlistEntry) (*domain.WaitlistEntry, error) {
	err := r.store.write(ctx, func(st *state) error {
		st.nextWaitlistID++
		now := r.store.now()
		e.ID = st.nextWaitlistID
		e.CreatedAt = now
		e.UpdatedAt = now
		st.waitlist[e.ID] = *e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

// GetByID получает заявку по ID
func (r *WaitlistRepository) GetByID(ctx context.Context, id int64) (*domain.WaitlistEntry, error) {
	var out domain.WaitlistEntry
	err := r.store.read(ctx, func(st *state) error {
		e, ok := st.waitlist[id]
		if !ok {
			return waitlistRepo.ErrEntryNotFound
		}
		out = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// List получает заявки по фильтру, старые первыми
func (r *WaitlistRepository) List(ctx context.Context, filter domain.WaitlistFilter) ([]*domain.WaitlistEntry, error) {
	out := make([]*domain.WaitlistEntry, 0)
	err := r.store.read(ctx, func(st *state) error {
		for _, e := range st.waitlist {
			if !filter.Matches(&e) {
				continue
			}
			out = append(out, &e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Update сохраняет изменяемые поля активной заявки
func (r *WaitlistRepository) Update(ctx context.Context, e *domain.WaitlistEntry) (*domain.WaitlistEntry, error) {
	err := r.store.write(ctx, func(st *state) error {
		current, ok := st.waitlist[e.ID]
		if !ok {
			return waitlistRepo.ErrEntryNotFound
		}
		if !current.IsActive {
			return waitlistRepo.ErrEntryInactive
		}
		e.CustomerID = current.CustomerID
		e.IsActive = current.IsActive
		e.CreatedAt = current.CreatedAt
		e.UpdatedAt = r.store.now()
		st.waitlist[e.ID] = *e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Deactivate мягко деактивирует заявку
func (r *WaitlistRepository) Deactivate(ctx context.Context, id int64, at time.Time, promotedBookingID *int64) error {
	return r.store.write(ctx, func(st *state) error {
		e, ok := st.waitlist[id]
		if !ok {
			return waitlistRepo.ErrEntryNotFound
		}
		if !e.IsActive {
			return waitlistRepo.ErrEntryInactive
		}
		e.IsActive = false
		e.DeactivatedAt = &at
		e.PromotedBookingID = promotedBookingID
		e.UpdatedAt = at
		st.waitlist[id] = e
		return nil
	})
}
