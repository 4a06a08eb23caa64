package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordLogger запоминает уровни записанных сообщений
type recordLogger struct {
	mu     sync.Mutex
	levels []string
}

func (l *recordLogger) record(level string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.levels = append(l.levels, level)
}

func (l *recordLogger) Info(string, ...interface{})  { l.record("info") }
func (l *recordLogger) Warn(string, ...interface{})  { l.record("warn") }
func (l *recordLogger) Error(string, ...interface{}) { l.record("error") }

func ok(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestAuth(t *testing.T) {
	var got int64
	h := Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = GetUserID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{name: "missing", header: "", status: http.StatusUnauthorized},
		{name: "not a number", header: "abc", status: http.StatusUnauthorized},
		{name: "zero", header: "0", status: http.StatusUnauthorized},
		{name: "negative", header: "-3", status: http.StatusUnauthorized},
		{name: "valid", header: "42", status: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got = 0
			req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/1", nil)
			if tt.header != "" {
				req.Header.Set(HeaderUserID, tt.header)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusNoContent {
				assert.Equal(t, int64(42), got)
			} else {
				assert.Zero(t, got)
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "req-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "req-1", seen)
	assert.Equal(t, "req-1", rec.Header().Get(HeaderRequestID))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	_, err := uuid.Parse(seen)
	require.NoError(t, err)
	assert.Equal(t, seen, rec.Header().Get(HeaderRequestID))
}

func TestLogging_LevelByStatus(t *testing.T) {
	log := &recordLogger{}
	for _, status := range []int{http.StatusOK, http.StatusConflict, http.StatusServiceUnavailable} {
		h := Logging(log)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(status)
		}))
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	}

	// без явного WriteHeader статус 200
	Logging(log)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).
		ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"info", "warn", "error", "info"}, log.levels)
}

type metricsRecorder struct {
	routes   []string
	statuses []int
}

func (m *metricsRecorder) ObserveHTTPRequest(_, route string, status int, _ time.Duration) {
	m.routes = append(m.routes, route)
	m.statuses = append(m.statuses, status)
}

func TestMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	m := &metricsRecorder{}
	r := mux.NewRouter()
	r.Use(MetricsMiddleware(m))
	r.HandleFunc("/api/v1/bookings/{bookingId}", ok).Methods(http.MethodGet)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/bookings/17", nil))

	assert.Equal(t, []string{"/api/v1/bookings/{bookingId}"}, m.routes)
	assert.Equal(t, []int{http.StatusOK}, m.statuses)
}

func TestRateLimiter(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, 2, time.Minute)
	rl.now = func() time.Time { return now }
	h := rl.Limit(http.HandlerFunc(ok))

	call := func(user string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/resources", nil)
		req.Header.Set(HeaderUserID, user)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, call("1").Code)
	assert.Equal(t, http.StatusOK, call("1").Code)

	limited := call("1")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "1", limited.Header().Get("Retry-After"))

	// другой клиент не затронут
	assert.Equal(t, http.StatusOK, call("2").Code)

	now = now.Add(time.Second)
	assert.Equal(t, http.StatusOK, call("1").Code)
}

func TestRateLimiter_Cleanup(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, 1, time.Minute)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("ip:10.0.0.1"))
	now = now.Add(30 * time.Second)
	assert.True(t, rl.Allow("ip:10.0.0.2"))

	now = now.Add(45 * time.Second)
	rl.Cleanup()

	assert.Len(t, rl.visitors, 1)
	assert.Contains(t, rl.visitors, "ip:10.0.0.2")
}

func TestClientKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.7:51234"
	assert.Equal(t, "ip:10.0.0.7", clientKey(req))

	req.Header.Set(HeaderUserID, "5")
	assert.Equal(t, "user:5", clientKey(req))

	req = req.WithContext(WithUserID(req.Context(), 9))
	assert.Equal(t, "user:9", clientKey(req))
}
