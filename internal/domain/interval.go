package domain

import (
	"sort"
	"time"
)

// Interval полуоткрытый интервал времени [Start, End)
type Interval struct {
	Start time.Time
	End   time.Time
}

// IsValid returns true if the interval has a positive length
func (i Interval) IsValid() bool {
	return i.End.After(i.Start)
}

// Duration длина интервала
func (i Interval) Duration() time.Duration {
	if !i.IsValid() {
		return 0
	}
	return i.End.Sub(i.Start)
}

// Minutes длина интервала в целых минутах
func (i Interval) Minutes() int {
	return int(i.Duration() / time.Minute)
}

// Overlaps returns true if the intervals share a positive duration.
// Смежные интервалы ([10:00,12:00) и [12:00,14:00)) не пересекаются.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// Contains returns true if other lies fully inside i
func (i Interval) Contains(other Interval) bool {
	return !other.Start.Before(i.Start) && !other.End.After(i.End)
}

// Clip обрезает интервал по окну. ok = false, если пересечения нет.
func (i Interval) Clip(window Interval) (Interval, bool) {
	start := i.Start
	if window.Start.After(start) {
		start = window.Start
	}
	end := i.End
	if window.End.Before(end) {
		end = window.End
	}
	clipped := Interval{Start: start, End: end}
	return clipped, clipped.IsValid()
}

// MergeIntervals сортирует интервалы и склеивает пересекающиеся и смежные.
// Пустые интервалы отбрасываются.
func MergeIntervals(intervals []Interval) []Interval {
	valid := make([]Interval, 0, len(intervals))
	for _, in := range intervals {
		if in.IsValid() {
			valid = append(valid, in)
		}
	}
	if len(valid) == 0 {
		return nil
	}

	sort.Slice(valid, func(a, b int) bool {
		return valid[a].Start.Before(valid[b].Start)
	})

	merged := []Interval{valid[0]}
	for _, in := range valid[1:] {
		last := &merged[len(merged)-1]
		if !in.Start.After(last.End) {
			if in.End.After(last.End) {
				last.End = in.End
			}
			continue
		}
		merged = append(merged, in)
	}
	return merged
}

// ClipAndMerge обрезает интервалы по окну и склеивает их
func ClipAndMerge(window Interval, intervals []Interval) []Interval {
	clipped := make([]Interval, 0, len(intervals))
	for _, in := range intervals {
		if c, ok := in.Clip(window); ok {
			clipped = append(clipped, c)
		}
	}
	return MergeIntervals(clipped)
}

// TotalMinutes суммарная длина интервалов в целых минутах.
// Интервалы должны быть уже склеены, иначе пересечения посчитаются дважды.
func TotalMinutes(intervals []Interval) int {
	var total time.Duration
	for _, in := range intervals {
		total += in.Duration()
	}
	return int(total / time.Minute)
}

// OverlapsAny returns true if the interval overlaps any of the given ones
func (i Interval) OverlapsAny(intervals []Interval) bool {
	for _, other := range intervals {
		if i.Overlaps(other) {
			return true
		}
	}
	return false
}
