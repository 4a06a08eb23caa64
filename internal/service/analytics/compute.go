package analytics

import (
	"cmp"
	"math"
	"slices"
	"time"

	"github.com/inksync/studio-booking/internal/domain"
	"github.com/inksync/studio-booking/internal/service/analytics/models"
)

const (
	topOfferingsLimit = 5
	topStylesLimit    = 5
	topResourcesLimit = 5
	topPeakTimesLimit = 10
	minutesPerHour    = 60.0
	hoursPerDay       = 24.0
	percent           = 100.0
)

// Growth прирост cur относительно prev в процентах. При prev = 0 прирост равен 0.
func Growth(cur, prev float64) float64 {
	if prev == 0 {
		return 0
	}
	return round2((cur - prev) / prev * percent)
}

func rate(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return round2(float64(part) / float64(total) * percent)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// bookingStats агрегаты по набору бронирований
type bookingStats struct {
	total     int
	completed int
	cancelled int
	scheduled int
	revenue   float64

	activeCount   int
	activeMinutes int

	offerings map[int64]*models.OfferingStat
	weekdays  [7]int
	customers map[int64]int
}

func collectBookings(bookings []*domain.Booking, loc *time.Location) *bookingStats {
	st := &bookingStats{
		offerings: make(map[int64]*models.OfferingStat),
		customers: make(map[int64]int),
	}

	for _, b := range bookings {
		st.total++
		st.customers[b.CustomerID]++
		st.weekdays[b.StartTime.In(loc).Weekday()]++

		switch b.Status {
		case domain.StatusCompleted:
			st.completed++
			st.revenue += b.Revenue()

			o, ok := st.offerings[b.OfferingID]
			if !ok {
				o = &models.OfferingStat{OfferingID: b.OfferingID, Name: b.OfferingName}
				st.offerings[b.OfferingID] = o
			}
			o.Completed++
			o.Revenue += b.Revenue()
		case domain.StatusCancelled:
			st.cancelled++
		case domain.StatusScheduled:
			st.scheduled++
		}

		if b.IsActive() {
			st.activeCount++
			st.activeMinutes += b.DurationMinutes()
		}
	}
	return st
}

func (st *bookingStats) averageDuration() float64 {
	if st.activeCount == 0 {
		return 0
	}
	return round2(float64(st.activeMinutes) / float64(st.activeCount))
}

func (st *bookingStats) busyHours() float64 {
	return round2(float64(st.activeMinutes) / minutesPerHour)
}

// retention доля клиентов, у которых больше одного бронирования
func (st *bookingStats) retention() float64 {
	returning := 0
	for _, n := range st.customers {
		if n > 1 {
			returning++
		}
	}
	return rate(returning, len(st.customers))
}

func (st *bookingStats) topOfferings() []models.OfferingStat {
	out := make([]models.OfferingStat, 0, len(st.offerings))
	for _, o := range st.offerings {
		stat := *o
		stat.Revenue = round2(stat.Revenue)
		out = append(out, stat)
	}
	slices.SortFunc(out, func(a, b models.OfferingStat) int {
		if c := cmp.Compare(b.Completed, a.Completed); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Revenue, a.Revenue); c != 0 {
			return c
		}
		return cmp.Compare(a.OfferingID, b.OfferingID)
	})
	return limit(out, topOfferingsLimit)
}

// byWeekday счетчики с воскресенья по субботу
func (st *bookingStats) byWeekday() []models.WeekdayStat {
	out := make([]models.WeekdayStat, 0, len(st.weekdays))
	for day, count := range st.weekdays {
		out = append(out, models.WeekdayStat{Weekday: time.Weekday(day).String(), Count: count})
	}
	return out
}

func (st *bookingStats) performance(res *domain.Resource) models.ResourcePerformance {
	return models.ResourcePerformance{
		ResourceID:     res.ID,
		Name:           res.Name,
		TotalBookings:  st.total,
		Completed:      st.completed,
		Cancelled:      st.cancelled,
		Revenue:        round2(st.revenue),
		BusyHours:      st.busyHours(),
		CompletionRate: rate(st.completed, st.total),
	}
}

func peakTimes(bookings []*domain.Booking, loc *time.Location) []models.PeakTime {
	type key struct {
		day  time.Weekday
		hour int
	}
	counts := make(map[key]int)
	for _, b := range bookings {
		if !b.IsActive() {
			continue
		}
		start := b.StartTime.In(loc)
		counts[key{day: start.Weekday(), hour: start.Hour()}]++
	}

	keys := make([]key, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b key) int {
		if c := cmp.Compare(counts[b], counts[a]); c != 0 {
			return c
		}
		if c := cmp.Compare(a.day, b.day); c != 0 {
			return c
		}
		return cmp.Compare(a.hour, b.hour)
	})

	out := make([]models.PeakTime, 0, len(keys))
	for _, k := range limit(keys, topPeakTimesLimit) {
		out = append(out, models.PeakTime{Weekday: k.day.String(), Hour: k.hour, Count: counts[k]})
	}
	return out
}

// waitlistStats агрегаты по заявкам листа ожидания
type waitlistStats struct {
	total     int
	active    int
	converted int
	waitDays  float64
	styles    map[domain.TattooStyle]int
	resources map[int64]int
}

func collectWaitlist(entries []*domain.WaitlistEntry) *waitlistStats {
	st := &waitlistStats{
		styles:    make(map[domain.TattooStyle]int),
		resources: make(map[int64]int),
	}

	for _, e := range entries {
		st.total++
		if e.IsActive {
			st.active++
		}
		if e.PromotedBookingID != nil {
			st.converted++
			if e.DeactivatedAt != nil {
				st.waitDays += e.DeactivatedAt.Sub(e.CreatedAt).Hours() / hoursPerDay
			}
		}
		if e.Style != domain.StyleUnspecified {
			st.styles[e.Style]++
		}
		if e.ResourceID != nil {
			st.resources[*e.ResourceID]++
		}
	}
	return st
}

func (st *waitlistStats) averageWaitDays() float64 {
	if st.converted == 0 {
		return 0
	}
	return round2(st.waitDays / float64(st.converted))
}

func (st *waitlistStats) topStyles() []models.StyleStat {
	out := make([]models.StyleStat, 0, len(st.styles))
	for style, count := range st.styles {
		out = append(out, models.StyleStat{Style: string(style), Count: count})
	}
	slices.SortFunc(out, func(a, b models.StyleStat) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Style, b.Style)
	})
	return limit(out, topStylesLimit)
}

func (st *waitlistStats) topResources(names map[int64]string) []models.ResourceDemand {
	out := make([]models.ResourceDemand, 0, len(st.resources))
	for id, count := range st.resources {
		out = append(out, models.ResourceDemand{ResourceID: id, Name: names[id], Count: count})
	}
	slices.SortFunc(out, func(a, b models.ResourceDemand) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.ResourceID, b.ResourceID)
	})
	return limit(out, topResourcesLimit)
}

func limit[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
