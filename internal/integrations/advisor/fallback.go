package advisor

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

const (
	maxSuggestedResources = 2
	maxSuggestedDates     = 3

	defaultWaitlistMessage = "Спасибо, что записались в лист ожидания. Мы сообщим, как только появится подходящее время."
)

// Fallback оборачивает советника детерминированными ответами.
// Ошибки основного советника логируются и никогда не возвращаются вызывающему.
// primary может быть nil, тогда всегда используется запасной ответ.
type Fallback struct {
	primary Advisor
	log     Logger
}

// WithFallback создает обертку
func WithFallback(primary Advisor, log Logger) *Fallback {
	return &Fallback{primary: primary, log: log}
}

// Recommend возвращает рекомендацию советника, ограниченную переданными мастерами
func (f *Fallback) Recommend(ctx context.Context, resources []ResourceSummary, prefs Preferences) (*Recommendation, error) {
	if f.primary != nil {
		rec, err := f.primary.Recommend(ctx, resources, prefs)
		if err == nil && rec != nil && (rec.ResourceID == nil || containsResource(resources, *rec.ResourceID)) {
			return rec, nil
		}
		f.logFailure("Recommend", err)
	}
	return fallbackRecommendation(resources, prefs), nil
}

// Summarize возвращает выводы советника или выводы по правилам
func (f *Fallback) Summarize(ctx context.Context, snapshot Snapshot) (*Summary, error) {
	if f.primary != nil {
		sum, err := f.primary.Summarize(ctx, snapshot)
		if err == nil && sum != nil && len(sum.Insights) > 0 {
			return sum, nil
		}
		f.logFailure("Summarize", err)
	}
	return fallbackSummary(snapshot), nil
}

// SuggestAlternatives возвращает варианты только из реальных кандидатов и дат
func (f *Fallback) SuggestAlternatives(ctx context.Context, req AlternativesRequest) (*Alternatives, error) {
	if f.primary != nil {
		alt, err := f.primary.SuggestAlternatives(ctx, req)
		if err == nil && alt != nil {
			return sanitizeAlternatives(alt, req), nil
		}
		f.logFailure("SuggestAlternatives", err)
	}
	return fallbackAlternatives(req), nil
}

// WaitlistMessage возвращает текст подтверждения записи в лист ожидания
func (f *Fallback) WaitlistMessage(ctx context.Context, prefs Preferences) (string, error) {
	if f.primary != nil {
		msg, err := f.primary.WaitlistMessage(ctx, prefs)
		if err == nil && msg != "" {
			return msg, nil
		}
		f.logFailure("WaitlistMessage", err)
	}
	return defaultWaitlistMessage, nil
}

func (f *Fallback) logFailure(op string, err error) {
	if err == nil {
		f.log.Warn("Advisor.%s: empty or out-of-range answer, using fallback", op)
		return
	}
	f.log.Warn("Advisor.%s: advisor unavailable, using fallback: %v", op, err)
}

func fallbackRecommendation(resources []ResourceSummary, prefs Preferences) *Recommendation {
	if len(resources) == 0 {
		return &Recommendation{Message: "Сейчас нет мастеров, принимающих записи. Оставьте заявку в листе ожидания."}
	}

	style := strings.ToLower(strings.ReplaceAll(prefs.Style, "_", " "))
	pick := -1
	for i, r := range resources {
		if !r.IsAvailable {
			continue
		}
		if style != "" && strings.Contains(strings.ToLower(r.Specialty), style) {
			pick = i
			break
		}
		if pick < 0 {
			pick = i
		}
	}
	if pick < 0 {
		pick = 0
	}

	r := resources[pick]
	id := r.ID
	return &Recommendation{
		ResourceID: &id,
		Message:    fmt.Sprintf("Рекомендуем мастера %s, специализация: %s.", r.Name, r.Specialty),
	}
}

func fallbackSummary(s Snapshot) *Summary {
	m := s.Metrics
	sum := &Summary{}

	sum.Insights = append(sum.Insights, fmt.Sprintf("За период %s - %s: %.0f бронирований, выручка %.2f.",
		s.From, s.To, m[MetricTotalBookings], m[MetricTotalRevenue]))

	switch growth := m[MetricBusinessGrowth]; {
	case growth > 0:
		sum.Insights = append(sum.Insights, fmt.Sprintf("Выручка выросла на %.1f%% к прошлому периоду.", growth))
	case growth < 0:
		sum.Insights = append(sum.Insights, fmt.Sprintf("Выручка снизилась на %.1f%% к прошлому периоду.", -growth))
		sum.Recommendations = append(sum.Recommendations, "Проверьте загрузку мастеров и запустите акцию на свободные дни.")
	}

	if rate := m[MetricCompletionRate]; m[MetricTotalBookings] > 0 && rate < 80 {
		sum.Insights = append(sum.Insights, fmt.Sprintf("Завершается только %.1f%% бронирований.", rate))
		sum.Recommendations = append(sum.Recommendations, "Напоминайте клиентам о сеансе заранее, чтобы снизить число отмен.")
	}

	if m[MetricActiveWaitlist] > 0 {
		sum.Insights = append(sum.Insights, fmt.Sprintf("В листе ожидания %.0f активных заявок, конверсия %.1f%%.",
			m[MetricActiveWaitlist], m[MetricWaitlistConversionRate]))
		sum.Recommendations = append(sum.Recommendations, "Откройте дополнительные окна у востребованных мастеров для заявок из листа ожидания.")
	}

	if len(s.PopularStyles) > 0 {
		sum.Insights = append(sum.Insights, "Популярные стили: "+strings.Join(s.PopularStyles, ", ")+".")
	}
	if len(s.PeakTimes) > 0 {
		sum.Recommendations = append(sum.Recommendations, "Планируйте смены под пиковое время: "+strings.Join(s.PeakTimes, ", ")+".")
	}

	if len(sum.Recommendations) == 0 {
		sum.Recommendations = append(sum.Recommendations, "Показатели стабильны, продолжайте текущую загрузку мастеров.")
	}
	return sum
}

func fallbackAlternatives(req AlternativesRequest) *Alternatives {
	alt := &Alternatives{
		Message: "Жаль, что сеанс отменен. Вот варианты, которые могут подойти.",
	}
	for _, c := range req.Candidates {
		if len(alt.ResourceIDs) == maxSuggestedResources {
			break
		}
		alt.ResourceIDs = append(alt.ResourceIDs, c.ID)
	}
	alt.Dates = append(alt.Dates, req.Dates[:min(len(req.Dates), maxSuggestedDates)]...)
	return alt
}

func sanitizeAlternatives(alt *Alternatives, req AlternativesRequest) *Alternatives {
	out := &Alternatives{Message: alt.Message}
	for _, id := range alt.ResourceIDs {
		if containsResource(req.Candidates, id) && !slices.Contains(out.ResourceIDs, id) {
			out.ResourceIDs = append(out.ResourceIDs, id)
		}
	}
	for _, d := range alt.Dates {
		if slices.Contains(req.Dates, d) && !slices.Contains(out.Dates, d) {
			out.Dates = append(out.Dates, d)
		}
	}
	if out.Message == "" {
		out.Message = fallbackAlternatives(req).Message
	}
	return out
}

func containsResource(resources []ResourceSummary, id int64) bool {
	return slices.ContainsFunc(resources, func(r ResourceSummary) bool { return r.ID == id })
}
