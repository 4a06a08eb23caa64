package cache

import (
	"context"
	"time"

	"github.com/inksync/studio-booking/internal/domain"
)

// Noop кэш без хранения, всегда вызывает load
type Noop struct{}

// GetOrLoadDays вызывает load
func (Noop) GetOrLoadDays(
	ctx context.Context,
	_ int64,
	_, _ time.Time,
	load func(ctx context.Context) ([]domain.DayAvailability, error),
) ([]domain.DayAvailability, error) {
	return load(ctx)
}

// Invalidate ничего не делает
func (Noop) Invalidate(context.Context, int64) error {
	return nil
}
