package list_offerings

import (
	"errors"
	"net/http"

	"github.com/inksync/studio-booking/internal/api/handlers"
	"github.com/inksync/studio-booking/internal/service/resources"
)

const (
	msgInvalidResourceID = "некорректный ID мастера"
	msgInvalidParams     = "некорректные параметры запроса"
	msgNotFound          = "мастер не найден"
)

type Handler struct {
	service ResourceService
	logger  Logger
}

func NewHandler(service ResourceService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/resources/{resourceId}/offerings
// Query params: includeInactive (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	resourceID, err := handlers.PathInt64(r, "resourceId")
	if err != nil {
		h.logger.Warn("GET /resources/{id}/offerings - Invalid resource ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	includeInactive, err := handlers.QueryBool(r, "includeInactive")
	if err != nil {
		h.logger.Warn("GET /resources/{id}/offerings - Invalid includeInactive: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.ListOfferings(r.Context(), resourceID, includeInactive)
	if err != nil {
		if errors.Is(err, resources.ErrResourceNotFound) {
			h.logger.Warn("GET /resources/{id}/offerings - Resource not found: resource_id=%d", resourceID)
			handlers.RespondNotFound(w, msgNotFound)
			return
		}

		h.logger.Error("GET /resources/{id}/offerings - Failed to list offerings: resource_id=%d, error=%v", resourceID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /resources/{id}/offerings - Offerings listed: resource_id=%d, count=%d",
		resourceID, len(result.Offerings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
