package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// stubAdvisor отвечает заранее заданными значениями
type stubAdvisor struct {
	rec     *Recommendation
	summary *Summary
	alt     *Alternatives
	message string
	err     error
}

func (s *stubAdvisor) Recommend(context.Context, []ResourceSummary, Preferences) (*Recommendation, error) {
	return s.rec, s.err
}

func (s *stubAdvisor) Summarize(context.Context, Snapshot) (*Summary, error) {
	return s.summary, s.err
}

func (s *stubAdvisor) SuggestAlternatives(context.Context, AlternativesRequest) (*Alternatives, error) {
	return s.alt, s.err
}

func (s *stubAdvisor) WaitlistMessage(context.Context, Preferences) (string, error) {
	return s.message, s.err
}

var resources = []ResourceSummary{
	{ID: 1, Name: "Ada", Specialty: "fine line", IsAvailable: true},
	{ID: 2, Name: "Bo", Specialty: "Neo Traditional, color", IsAvailable: true},
	{ID: 3, Name: "Cy", Specialty: "realism", IsAvailable: false},
}

func ptr(v int64) *int64 { return &v }

func TestFallback_Recommend(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		primary Advisor
		prefs   Preferences
		want    int64
	}{
		{name: "primary answer", primary: &stubAdvisor{rec: &Recommendation{ResourceID: ptr(1), Message: "ok"}}, want: 1},
		{name: "primary out of range", primary: &stubAdvisor{rec: &Recommendation{ResourceID: ptr(42)}}, prefs: Preferences{Style: "neo_traditional"}, want: 2},
		{name: "primary down", primary: &stubAdvisor{err: errors.New("timeout")}, prefs: Preferences{Style: "neo_traditional"}, want: 2},
		{name: "no primary, style match", prefs: Preferences{Style: "neo_traditional"}, want: 2},
		{name: "no primary, unavailable specialist skipped", prefs: Preferences{Style: "realism"}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := WithFallback(tt.primary, nopLogger{}).Recommend(ctx, resources, tt.prefs)
			require.NoError(t, err)
			require.NotNil(t, rec.ResourceID)
			assert.Equal(t, tt.want, *rec.ResourceID)
			assert.NotEmpty(t, rec.Message)
		})
	}

	rec, err := WithFallback(nil, nopLogger{}).Recommend(ctx, nil, Preferences{})
	require.NoError(t, err)
	assert.Nil(t, rec.ResourceID)
	assert.NotEmpty(t, rec.Message)
}

func TestFallback_SuggestAlternatives(t *testing.T) {
	ctx := context.Background()
	req := AlternativesRequest{
		BookingID:  9,
		ResourceID: 1,
		Candidates: resources[1:],
		Dates:      []string{"2025-03-11", "2025-03-12", "2025-03-13", "2025-03-14"},
	}

	// ответ советника очищается от мастеров и дат вне кандидатов
	primary := &stubAdvisor{alt: &Alternatives{
		Message:     "try these",
		ResourceIDs: []int64{2, 1, 2, 99},
		Dates:       []string{"2025-03-12", "2030-01-01"},
	}}
	alt, err := WithFallback(primary, nopLogger{}).SuggestAlternatives(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "try these", alt.Message)
	assert.Equal(t, []int64{2}, alt.ResourceIDs)
	assert.Equal(t, []string{"2025-03-12"}, alt.Dates)

	alt, err = WithFallback(&stubAdvisor{err: ErrDisabled}, nopLogger{}).SuggestAlternatives(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3}, alt.ResourceIDs)
	assert.Equal(t, []string{"2025-03-11", "2025-03-12", "2025-03-13"}, alt.Dates)
	assert.NotEmpty(t, alt.Message)
}

func TestFallback_Summarize(t *testing.T) {
	ctx := context.Background()
	snapshot := Snapshot{
		From: "2025-03-01",
		To:   "2025-03-31",
		Metrics: map[string]float64{
			MetricTotalBookings:  10,
			MetricTotalRevenue:   1500,
			MetricCompletionRate: 60,
			MetricBusinessGrowth: -20,
		},
		PopularStyles: []string{"realism"},
	}

	sum, err := WithFallback(&stubAdvisor{summary: &Summary{}}, nopLogger{}).Summarize(ctx, snapshot)
	require.NoError(t, err)
	require.NotEmpty(t, sum.Insights)
	assert.Contains(t, sum.Insights[0], "10 бронирований")
	assert.Contains(t, sum.Insights[1], "снизилась на 20.0%")
	assert.Len(t, sum.Recommendations, 2)

	ok := &Summary{Insights: []string{"fine"}, Recommendations: []string{"keep going"}}
	sum, err = WithFallback(&stubAdvisor{summary: ok}, nopLogger{}).Summarize(ctx, snapshot)
	require.NoError(t, err)
	assert.Same(t, ok, sum)
}

func TestFallback_WaitlistMessage(t *testing.T) {
	msg, err := WithFallback(&stubAdvisor{message: "see you soon"}, nopLogger{}).WaitlistMessage(context.Background(), Preferences{})
	require.NoError(t, err)
	assert.Equal(t, "see you soon", msg)

	msg, err = WithFallback(&stubAdvisor{err: errors.New("boom")}, nopLogger{}).WaitlistMessage(context.Background(), Preferences{})
	require.NoError(t, err)
	assert.Equal(t, defaultWaitlistMessage, msg)
}

func TestClient(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/recommend", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var req recommendRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Resources) == 0 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(Recommendation{ResourceID: &req.Resources[0].ID, Message: "pick " + req.Resources[0].Name})
	})
	mux.HandleFunc("POST /v1/waitlist-message", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message":""}`))
	})
	mux.HandleFunc("POST /v1/summarize", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	ctx := context.Background()
	c := NewClient(srv.URL, "secret", time.Second, nopLogger{})

	rec, err := c.Recommend(ctx, resources, Preferences{Style: "realism"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), *rec.ResourceID)
	assert.Equal(t, "pick Ada", rec.Message)

	_, err = NewClient(srv.URL, "wrong", time.Second, nopLogger{}).Recommend(ctx, resources, Preferences{})
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = c.WaitlistMessage(ctx, Preferences{})
	assert.ErrorIs(t, err, ErrInvalidResponse)

	_, err = c.Summarize(ctx, Snapshot{})
	assert.ErrorIs(t, err, ErrInvalidResponse)

	_, err = c.SuggestAlternatives(ctx, AlternativesRequest{})
	assert.ErrorIs(t, err, ErrInvalidResponse, "unknown path answers 404")
}
