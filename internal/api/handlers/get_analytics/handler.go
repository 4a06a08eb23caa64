package get_analytics

import (
	"context"
	"errors"
	"net/http"

	"github.com/inksync/studio-booking/internal/api/handlers"
	"github.com/inksync/studio-booking/internal/api/middleware"
	"github.com/inksync/studio-booking/internal/service/analytics"
	"github.com/inksync/studio-booking/internal/service/analytics/models"
)

const (
	msgMissingUserID     = "отсутствует ID пользователя"
	msgMissingPeriod     = "параметры from и to обязательны"
	msgInvalidParams     = "некорректные параметры отчета"
	msgInvalidResourceID = "некорректный ID мастера"
	msgNotFound          = "мастер не найден"
	msgForbidden         = "доступ запрещен"
)

type report func(ctx context.Context, req *models.ReportRequest) (interface{}, error)

// Handler отчеты аналитики за период from..to (YYYY-MM-DD).
// Отчет по конкретному мастеру доступен только его владельцу.
type Handler struct {
	service AnalyticsService
	logger  Logger
}

func NewHandler(service AnalyticsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Bookings GET /api/v1/analytics/bookings
// Query params: from, to (required), resourceId (опционально)
func (h *Handler) Bookings(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "GET /analytics/bookings", false, func(ctx context.Context, req *models.ReportRequest) (interface{}, error) {
		return h.service.BookingAnalytics(ctx, req)
	})
}

// Waitlist GET /api/v1/analytics/waitlist
// Query params: from, to (required), resourceId (опционально)
func (h *Handler) Waitlist(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "GET /analytics/waitlist", false, func(ctx context.Context, req *models.ReportRequest) (interface{}, error) {
		return h.service.WaitlistAnalytics(ctx, req)
	})
}

// Resource GET /api/v1/analytics/resources/{resourceId}
func (h *Handler) Resource(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "GET /analytics/resources/{id}", true, func(ctx context.Context, req *models.ReportRequest) (interface{}, error) {
		return h.service.ResourceAnalytics(ctx, req)
	})
}

// Studio GET /api/v1/analytics/studio
func (h *Handler) Studio(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "GET /analytics/studio", false, func(ctx context.Context, req *models.ReportRequest) (interface{}, error) {
		return h.service.StudioAnalytics(ctx, req)
	})
}

// Insights GET /api/v1/analytics/insights
func (h *Handler) Insights(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "GET /analytics/insights", false, func(ctx context.Context, req *models.ReportRequest) (interface{}, error) {
		return h.service.Insights(ctx, req)
	})
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request, route string, resourceInPath bool, run report) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("%s - Missing user ID", route)
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	req := &models.ReportRequest{
		UserID: userID,
		From:   r.URL.Query().Get("from"),
		To:     r.URL.Query().Get("to"),
	}
	if req.From == "" || req.To == "" {
		h.logger.Warn("%s - Missing period: from=%q, to=%q", route, req.From, req.To)
		handlers.RespondBadRequest(w, msgMissingPeriod)
		return
	}

	if resourceInPath {
		resourceID, err := handlers.PathInt64(r, "resourceId")
		if err != nil {
			h.logger.Warn("%s - Invalid resource ID: %v", route, err)
			handlers.RespondBadRequest(w, msgInvalidResourceID)
			return
		}
		req.ResourceID = &resourceID
	} else {
		resourceID, err := handlers.QueryInt64Ptr(r, "resourceId")
		if err != nil {
			h.logger.Warn("%s - Invalid resource ID: %v", route, err)
			handlers.RespondBadRequest(w, msgInvalidResourceID)
			return
		}
		req.ResourceID = resourceID
	}

	result, err := run(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, analytics.ErrInvalidInput):
			h.logger.Warn("%s - Invalid parameters: %v", route, err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		case errors.Is(err, analytics.ErrResourceNotFound):
			h.logger.Warn("%s - Resource not found: resource_id=%v", route, req.ResourceID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, analytics.ErrAccessDenied):
			h.logger.Warn("%s - Access denied: user_id=%d, resource_id=%v", route, userID, req.ResourceID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("%s - Failed to build report: user_id=%d, error=%v", route, userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("%s - Report built: user_id=%d, period=%s..%s", route, userID, req.From, req.To)
	handlers.RespondJSON(w, http.StatusOK, result)
}
