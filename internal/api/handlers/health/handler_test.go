package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Warn(string, ...interface{}) {}

func ready(t *testing.T, checks map[string]Checker) (int, Response) {
	t.Helper()
	rec := httptest.NewRecorder()
	NewHandler(checks, nopLogger{}).Ready(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return rec.Code, resp
}

func TestLive(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHandler(nil, nopLogger{}).Live(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestReady(t *testing.T) {
	healthy := CheckerFunc(func(context.Context) error { return nil })
	broken := CheckerFunc(func(context.Context) error { return errors.New("connection refused") })

	code, resp := ready(t, map[string]Checker{"storage": healthy, "redis": healthy})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, map[string]string{"storage": "ok", "redis": "ok"}, resp.Checks)

	code, resp = ready(t, map[string]Checker{"storage": healthy, "redis": broken})
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unavailable", resp.Status)
	assert.Equal(t, "ok", resp.Checks["storage"])
	assert.Equal(t, "connection refused", resp.Checks["redis"])
}

func TestReady_PassesDeadline(t *testing.T) {
	var hasDeadline bool
	check := CheckerFunc(func(ctx context.Context) error {
		_, hasDeadline = ctx.Deadline()
		return nil
	})

	code, _ := ready(t, map[string]Checker{"storage": check})
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, hasDeadline)
}
