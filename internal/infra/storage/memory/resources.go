package memory

import (
	"context"
	"sort"

	"github.com/inksync/studio-booking/internal/domain"
	resourceRepo "github.com/inksync/studio-booking/internal/infra/storage/resource"
)

// ResourceRepository in-memory репозиторий ресурсов
type ResourceRepository struct {
	store *Store
}

// NewResourceRepository создает репозиторий ресурсов
func NewResourceRepository(store *Store) *ResourceRepository {
	return &ResourceRepository{store: store}
}

// Create создает ресурс
func (r *ResourceRepository) Create(ctx context.Context, res *domain.Resource) (*domain.Resource, error) {
	err := r.store.write(ctx, func(st *state) error {
		st.nextResourceID++
		now := r.store.now()
		res.ID = st.nextResourceID
		res.CreatedAt = now
		res.UpdatedAt = now
		st.resources[res.ID] = *res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// GetByID получает ресурс по ID
func (r *ResourceRepository) GetByID(ctx context.Context, id int64) (*domain.Resource, error) {
	var out domain.Resource
	err := r.store.read(ctx, func(st *state) error {
		res, ok := st.resources[id]
		if !ok {
			return resourceRepo.ErrResourceNotFound
		}
		out = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// List получает ресурсы, отсортированные по имени
func (r *ResourceRepository) List(ctx context.Context, onlyAvailable bool) ([]*domain.Resource, error) {
	out := make([]*domain.Resource, 0)
	err := r.store.read(ctx, func(st *state) error {
		for _, res := range st.resources {
			if onlyAvailable && !res.IsAvailable {
				continue
			}
			out = append(out, &res)
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

// Update обновляет профиль ресурса (рабочие часы не меняются)
func (r *ResourceRepository) Update(ctx context.Context, res *domain.Resource) (*domain.Resource, error) {
	err := r.store.write(ctx, func(st *state) error {
		current, ok := st.resources[res.ID]
		if !ok {
			return resourceRepo.ErrResourceNotFound
		}
		res.WorkingHours = current.WorkingHours
		res.CreatedAt = current.CreatedAt
		res.UpdatedAt = r.store.now()
		st.resources[res.ID] = *res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// SetWorkingHours перезаписывает рабочие часы
func (r *ResourceRepository) SetWorkingHours(ctx context.Context, resourceID int64, hours domain.WorkingHours) error {
	return r.store.write(ctx, func(st *state) error {
		res, ok := st.resources[resourceID]
		if !ok {
			return resourceRepo.ErrResourceNotFound
		}
		res.WorkingHours = hours
		res.UpdatedAt = r.store.now()
		st.resources[resourceID] = res
		return nil
	})
}
