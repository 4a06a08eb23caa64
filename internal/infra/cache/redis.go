package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/inksync/studio-booking/internal/domain"
	"github.com/inksync/studio-booking/internal/infra/redisx"
)

// AvailabilityCache кэш доступности по дням в Redis.
//
// Ключи версионированы по ресурсу: любая запись увеличивает версию (INCR),
// после чего старые ключи больше не читаются и истекают по TTL.
// Ошибки Redis не ломают запрос, данные считаются заново.
type AvailabilityCache struct {
	rdb    Store
	ttl    time.Duration
	sf     singleflight.Group
	logger Logger
}

// NewAvailabilityCache создает кэш
func NewAvailabilityCache(rdb Store, ttl time.Duration, logger Logger) *AvailabilityCache {
	return &AvailabilityCache{rdb: rdb, ttl: ttl, logger: logger}
}

type cachedDay struct {
	Date            time.Time        `json:"date"`
	Status          domain.DayStatus `json:"status"`
	WorkingMinutes  int              `json:"working_minutes"`
	OccupiedMinutes int              `json:"occupied_minutes"`
}

// GetOrLoadDays возвращает дни из кэша или вычисляет их через load
func (c *AvailabilityCache) GetOrLoadDays(
	ctx context.Context,
	resourceID int64,
	from, to time.Time,
	load func(ctx context.Context) ([]domain.DayAvailability, error),
) ([]domain.DayAvailability, error) {
	version, err := c.version(ctx, resourceID)
	if err != nil {
		c.logger.Warn("AvailabilityCache: failed to read version for resource=%d: %v", resourceID, err)
		return load(ctx)
	}

	key := redisx.KeyResourceDays(resourceID, version, from.Format(domain.DateFormat), to.Format(domain.DateFormat))

	if days, ok := c.get(ctx, key); ok {
		return days, nil
	}

	v, err, _ := c.sf.Do(key, func() (any, error) {
		if days, ok := c.get(ctx, key); ok {
			return days, nil
		}
		days, err := load(ctx)
		if err != nil {
			return nil, err
		}
		c.set(ctx, key, days)
		return days, nil
	})
	if err != nil {
		return nil, err
	}

	days, ok := v.([]domain.DayAvailability)
	if !ok {
		return nil, errors.New("cache: unexpected value type")
	}
	return days, nil
}

// Invalidate увеличивает версию кэша ресурса
func (c *AvailabilityCache) Invalidate(ctx context.Context, resourceID int64) error {
	if err := c.rdb.Incr(ctx, redisx.KeyResourceVersion(resourceID)).Err(); err != nil {
		return fmt.Errorf("cache: invalidate resource %d: %w", resourceID, err)
	}
	return nil
}

func (c *AvailabilityCache) version(ctx context.Context, resourceID int64) (int64, error) {
	v, err := c.rdb.Get(ctx, redisx.KeyResourceVersion(resourceID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

func (c *AvailabilityCache) get(ctx context.Context, key string) ([]domain.DayAvailability, bool) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("AvailabilityCache: get %s failed: %v", key, err)
		return nil, false
	}

	var cached []cachedDay
	if err := json.Unmarshal(raw, &cached); err != nil {
		c.logger.Warn("AvailabilityCache: corrupted entry %s: %v", key, err)
		return nil, false
	}

	days := make([]domain.DayAvailability, len(cached))
	for i, d := range cached {
		days[i] = domain.DayAvailability{
			Date:            d.Date,
			Status:          d.Status,
			WorkingMinutes:  d.WorkingMinutes,
			OccupiedMinutes: d.OccupiedMinutes,
		}
	}
	return days, true
}

func (c *AvailabilityCache) set(ctx context.Context, key string, days []domain.DayAvailability) {
	cached := make([]cachedDay, len(days))
	for i, d := range days {
		cached[i] = cachedDay{
			Date:            d.Date,
			Status:          d.Status,
			WorkingMinutes:  d.WorkingMinutes,
			OccupiedMinutes: d.OccupiedMinutes,
		}
	}

	raw, err := json.Marshal(cached)
	if err != nil {
		c.logger.Warn("AvailabilityCache: marshal %s failed: %v", key, err)
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("AvailabilityCache: set %s failed: %v", key, err)
	}
}
