package get_slots

import (
	"errors"
	"net/http"

	"github.com/inksync/studio-booking/internal/api/handlers"
	"github.com/inksync/studio-booking/internal/service/availability"
	"github.com/inksync/studio-booking/internal/service/availability/models"
)

const (
	msgInvalidResourceID = "некорректный ID мастера"
	msgMissingDate       = "дата обязательна"
	msgInvalidParams     = "некорректная дата или шаг слотов"
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

// Handle GET /api/v1/resources/{resourceId}/slots
// Query params: date (required, YYYY-MM-DD), granularity (опционально, минуты)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	resourceID, err := handlers.PathInt64(r, "resourceId")
	if err != nil {
		h.logger.Warn("GET /resources/{id}/slots - Invalid resource ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		h.logger.Warn("GET /resources/{id}/slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	granularity, err := handlers.QueryInt(r, "granularity")
	if err != nil {
		h.logger.Warn("GET /resources/{id}/slots - Invalid granularity: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.GetSlots(r.Context(), &models.GetSlotsRequest{
		ResourceID:  resourceID,
		Date:        date,
		Granularity: granularity,
	})
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrInvalidInput):
			h.logger.Warn("GET /resources/{id}/slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		case errors.Is(err, availability.ErrResourceNotFound):
			h.logger.Warn("GET /resources/{id}/slots - Resource not found: resource_id=%d", resourceID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("GET /resources/{id}/slots - Failed to compute slots: resource_id=%d, error=%v",
				resourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /resources/{id}/slots - Slots computed: resource_id=%d, date=%s, slots=%d",
		resourceID, date, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, result)
}
