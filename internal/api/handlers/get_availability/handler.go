package get_availability

import (
	"errors"
	"net/http"

	"github.com/inksync/studio-booking/internal/api/handlers"
	"github.com/inksync/studio-booking/internal/service/availability"
	"github.com/inksync/studio-booking/internal/service/availability/models"
)

const (
	msgInvalidResourceID = "некорректный ID мастера"
	msgMissingRange      = "параметры from и to обязательны"
	msgInvalidRange      = "некорректный диапазон дат, ожидается YYYY-MM-DD и from <= to"
	msgNotFound          = "мастер не найден"
)

type Handler struct {
	service AvailabilityService
	logger  Logger
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/resources/{resourceId}/availability
// Query params: from, to (required, YYYY-MM-DD, включительно)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	resourceID, err := handlers.PathInt64(r, "resourceId")
	if err != nil {
		h.logger.Warn("GET /resources/{id}/availability - Invalid resource ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	from, to := r.URL.Query().Get("from"), r.URL.Query().Get("to")
	if from == "" || to == "" {
		h.logger.Warn("GET /resources/{id}/availability - Missing range: from=%q, to=%q", from, to)
		handlers.RespondBadRequest(w, msgMissingRange)
		return
	}

	result, err := h.service.GetAvailability(r.Context(), &models.GetAvailabilityRequest{
		ResourceID: resourceID,
		From:       from,
		To:         to,
	})
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrInvalidInput):
			h.logger.Warn("GET /resources/{id}/availability - Invalid range: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRange)

		case errors.Is(err, availability.ErrResourceNotFound):
			h.logger.Warn("GET /resources/{id}/availability - Resource not found: resource_id=%d", resourceID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("GET /resources/{id}/availability - Failed to compute availability: resource_id=%d, error=%v",
				resourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /resources/{id}/availability - Availability computed: resource_id=%d, days=%d",
		resourceID, len(result.Days))
	handlers.RespondJSON(w, http.StatusOK, result)
}
