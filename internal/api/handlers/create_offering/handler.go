package create_offering

import (
	"errors"
	"net/http"

	"github.com/inksync/studio-booking/internal/api/handlers"
	"github.com/inksync/studio-booking/internal/api/middleware"
	"github.com/inksync/studio-booking/internal/service/resources"
	"github.com/inksync/studio-booking/internal/service/resources/models"
)

const (
	msgInvalidResourceID  = "некорректный ID мастера"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidInput       = "некорректные данные услуги"
	msgNotFound           = "мастер не найден"
	msgForbidden          = "доступ запрещен"
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

// Handle POST /api/v1/resources/{resourceId}/offerings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	resourceID, err := handlers.PathInt64(r, "resourceId")
	if err != nil {
		h.logger.Warn("POST /resources/{id}/offerings - Invalid resource ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /resources/{id}/offerings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.CreateOfferingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /resources/{id}/offerings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.UserID = userID

	result, err := h.service.CreateOffering(r.Context(), resourceID, &req)
	if err != nil {
		switch {
		case errors.Is(err, resources.ErrInvalidInput):
			h.logger.Warn("POST /resources/{id}/offerings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, resources.ErrResourceNotFound):
			h.logger.Warn("POST /resources/{id}/offerings - Resource not found: resource_id=%d", resourceID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, resources.ErrAccessDenied):
			h.logger.Warn("POST /resources/{id}/offerings - Access denied: resource_id=%d, user_id=%d", resourceID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("POST /resources/{id}/offerings - Failed to create offering: resource_id=%d, error=%v",
				resourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /resources/{id}/offerings - Offering created: offering_id=%d, resource_id=%d", result.ID, resourceID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
