package get_available_slots

import (
	"time"

	"github.com/inksync/studio-booking/internal/domain"
)

// freeRuns склеивает подряд идущие свободные слоты в непрерывные интервалы
func freeRuns(slots []domain.Slot) []domain.Interval {
	runs := make([]domain.Interval, 0)
	for _, slot := range slots {
		if !slot.IsAvailable {
			continue
		}
		if n := len(runs); n > 0 && runs[n-1].End.Equal(slot.Start) {
			runs[n-1].End = slot.End
			continue
		}
		runs = append(runs, domain.Interval{Start: slot.Start, End: slot.End})
	}
	return runs
}

// startTimes перебирает начала с шагом step внутри свободных интервалов.
// Сеанс длительностью duration должен целиком помещаться в интервал
// и начинаться не раньше now.
func startTimes(runs []domain.Interval, duration, step time.Duration, now time.Time) []domain.Interval {
	out := make([]domain.Interval, 0)
	if duration <= 0 || step <= 0 {
		return out
	}

	for _, run := range runs {
		for start := run.Start; !start.Add(duration).After(run.End); start = start.Add(step) {
			if start.Before(now) {
				continue
			}
			out = append(out, domain.Interval{Start: start, End: start.Add(duration)})
		}
	}
	return out
}
