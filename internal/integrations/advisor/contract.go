package advisor

import "context"

// Advisor генерация рекомендаций и текстов
type Advisor interface {
	Recommend(ctx context.Context, resources []ResourceSummary, prefs Preferences) (*Recommendation, error)
	Summarize(ctx context.Context, snapshot Snapshot) (*Summary, error)
	SuggestAlternatives(ctx context.Context, req AlternativesRequest) (*Alternatives, error)
	WaitlistMessage(ctx context.Context, prefs Preferences) (string, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
