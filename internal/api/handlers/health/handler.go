// Package health проверки живости и готовности сервиса.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/inksync/studio-booking/internal/api/handlers"
)

const checkTimeout = 2 * time.Second

// Checker зависимость, без которой сервис не готов принимать трафик
type Checker interface {
	Ping(ctx context.Context) error
}

// CheckerFunc адаптер функции к Checker
type CheckerFunc func(ctx context.Context) error

// Ping вызывает f(ctx)
func (f CheckerFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

type Logger interface {
	Warn(format string, v ...interface{})
}

// Response тело ответа проверок
type Response struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

type Handler struct {
	checks map[string]Checker
	logger Logger
}

// NewHandler checks: имя зависимости -> проверка
func NewHandler(checks map[string]Checker, logger Logger) *Handler {
	return &Handler{checks: checks, logger: logger}
}

// Live GET /health/live
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, Response{Status: "ok"})
}

// Ready GET /health/ready
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
	defer cancel()

	resp := Response{Status: "ok", Checks: make(map[string]string, len(h.checks))}
	status := http.StatusOK
	for name, check := range h.checks {
		if err := check.Ping(ctx); err != nil {
			h.logger.Warn("GET /health/ready - %s is not ready: %v", name, err)
			resp.Checks[name] = err.Error()
			resp.Status = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}

	handlers.RespondJSON(w, status, resp)
}
