package update_offering

import (
	"errors"
	"net/http"

	"github.com/inksync/studio-booking/internal/api/handlers"
	"github.com/inksync/studio-booking/internal/api/middleware"
	"github.com/inksync/studio-booking/internal/service/resources"
	"github.com/inksync/studio-booking/internal/service/resources/models"
)

const (
	msgInvalidOfferingID  = "некорректный ID услуги"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidInput       = "некорректные данные услуги"
	msgNotFound           = "услуга не найдена"
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

// Handle PATCH /api/v1/offerings/{offeringId}
// isActive=false деактивирует услугу
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	offeringID, err := handlers.PathInt64(r, "offeringId")
	if err != nil {
		h.logger.Warn("PATCH /offerings/{id} - Invalid offering ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOfferingID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /offerings/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.UpdateOfferingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /offerings/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.UserID = userID

	result, err := h.service.UpdateOffering(r.Context(), offeringID, &req)
	if err != nil {
		switch {
		case errors.Is(err, resources.ErrInvalidInput):
			h.logger.Warn("PATCH /offerings/{id} - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, resources.ErrOfferingNotFound), errors.Is(err, resources.ErrResourceNotFound):
			h.logger.Warn("PATCH /offerings/{id} - Offering not found: offering_id=%d", offeringID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, resources.ErrAccessDenied):
			h.logger.Warn("PATCH /offerings/{id} - Access denied: offering_id=%d, user_id=%d", offeringID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("PATCH /offerings/{id} - Failed to update offering: offering_id=%d, error=%v", offeringID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /offerings/{id} - Offering updated: offering_id=%d, active=%t", offeringID, result.IsActive)
	handlers.RespondJSON(w, http.StatusOK, result)
}
