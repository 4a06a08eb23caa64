package set_working_hours

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
	msgInvalidHours       = "некорректное расписание: время HH:MM, открытие раньше закрытия"
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

// Handle PUT /api/v1/resources/{resourceId}/working-hours
// Тело запроса полностью заменяет недельный шаблон
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	resourceID, err := handlers.PathInt64(r, "resourceId")
	if err != nil {
		h.logger.Warn("PUT /resources/{id}/working-hours - Invalid resource ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /resources/{id}/working-hours - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.WorkingHoursDTO
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /resources/{id}/working-hours - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.SetWorkingHours(r.Context(), resourceID, userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, resources.ErrInvalidInput):
			h.logger.Warn("PUT /resources/{id}/working-hours - Invalid working hours: %v", err)
			handlers.RespondBadRequest(w, msgInvalidHours)

		case errors.Is(err, resources.ErrResourceNotFound):
			h.logger.Warn("PUT /resources/{id}/working-hours - Resource not found: resource_id=%d", resourceID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, resources.ErrAccessDenied):
			h.logger.Warn("PUT /resources/{id}/working-hours - Access denied: resource_id=%d, user_id=%d",
				resourceID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("PUT /resources/{id}/working-hours - Failed to set working hours: resource_id=%d, error=%v",
				resourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /resources/{id}/working-hours - Working hours updated: resource_id=%d, user_id=%d",
		resourceID, userID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
