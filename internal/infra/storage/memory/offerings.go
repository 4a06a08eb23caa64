package memory

import (
	"context"
	"sort"

	"github.com/inksync/studio-booking/internal/domain"
	offeringRepo "github.com/inksync/studio-booking/internal/infra/storage/offering"
)

// OfferingRepository in-memory репозиторий услуг
type OfferingRepository struct {
	store *Store
}

// NewOfferingRepository создает репозиторий услуг
func NewOfferingRepository(store *Store) *OfferingRepository {
	return &OfferingRepository{store: store}
}

// Create создает услугу
func (r *OfferingRepository) Create(ctx context.Context, o *domain.ServiceOffering) (*domain.ServiceOffering, error) {
	err := r.store.write(ctx, func(st *state) error {
		if _, ok := st.resources[o.ResourceID]; !ok {
			return offeringRepo.ErrResourceNotFound
		}
		st.nextOfferingID++
		now := r.store.now()
		o.ID = st.nextOfferingID
		o.CreatedAt = now
		o.UpdatedAt = now
		st.offerings[o.ID] = *o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

// GetByID получает услугу по ID
func (r *OfferingRepository) GetByID(ctx context.Context, id int64) (*domain.ServiceOffering, error) {
	var out domain.ServiceOffering
	err := r.store.read(ctx, func(st *state) error {
		o, ok := st.offerings[id]
		if !ok {
			return offeringRepo.ErrOfferingNotFound
		}
		out = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListByResource получает услуги ресурса
func (r *OfferingRepository) ListByResource(ctx context.Context, resourceID int64, includeInactive bool) ([]*domain.ServiceOffering, error) {
	out := make([]*domain.ServiceOffering, 0)
	err := r.store.read(ctx, func(st *state) error {
		for _, o := range st.offerings {
			if o.ResourceID != resourceID || (!includeInactive && !o.IsActive) {
				continue
			}
			out = append(out, &o)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Update обновляет услугу
func (r *OfferingRepository) Update(ctx context.Context, o *domain.ServiceOffering) (*domain.ServiceOffering, error) {
	err := r.store.write(ctx, func(st *state) error {
		current, ok := st.offerings[o.ID]
		if !ok {
			return offeringRepo.ErrOfferingNotFound
		}
		o.CreatedAt = current.CreatedAt
		o.UpdatedAt = r.store.now()
		st.offerings[o.ID] = *o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}
