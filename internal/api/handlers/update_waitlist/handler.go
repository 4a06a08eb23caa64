package update_waitlist

import (
	"errors"
	"net/http"

	"github.com/inksync/studio-booking/internal/api/handlers"
	"github.com/inksync/studio-booking/internal/api/middleware"
	"github.com/inksync/studio-booking/internal/service/waitlist"
	"github.com/inksync/studio-booking/internal/service/waitlist/models"
)

const (
	msgInvalidEntryID     = "некорректный ID заявки"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidInput       = "некорректные изменения заявки"
	msgNotFound           = "заявка не найдена"
	msgResourceNotFound   = "мастер не найден"
	msgForbidden          = "доступ запрещен"
	msgInactive           = "заявка уже неактивна"
)

type Handler struct {
	service WaitlistService
	logger  Logger
}

func NewHandler(service WaitlistService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/waitlist/{entryId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	entryID, err := handlers.PathInt64(r, "entryId")
	if err != nil {
		h.logger.Warn("PATCH /waitlist/{id} - Invalid entry ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEntryID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /waitlist/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.UpdateWaitlistRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /waitlist/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.CustomerID = userID

	result, err := h.service.Update(r.Context(), entryID, &req)
	if err != nil {
		switch {
		case errors.Is(err, waitlist.ErrInvalidInput):
			h.logger.Warn("PATCH /waitlist/{id} - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, waitlist.ErrEntryNotFound):
			h.logger.Warn("PATCH /waitlist/{id} - Entry not found: entry_id=%d", entryID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, waitlist.ErrResourceNotFound):
			h.logger.Warn("PATCH /waitlist/{id} - Resource not found: resource_id=%v", req.ResourceID)
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, waitlist.ErrAccessDenied):
			h.logger.Warn("PATCH /waitlist/{id} - Access denied: entry_id=%d, user_id=%d", entryID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, waitlist.ErrEntryInactive):
			h.logger.Warn("PATCH /waitlist/{id} - Entry inactive: entry_id=%d", entryID)
			handlers.RespondConflict(w, msgInactive)

		default:
			h.logger.Error("PATCH /waitlist/{id} - Failed to update entry: entry_id=%d, error=%v", entryID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /waitlist/{id} - Entry updated: entry_id=%d, user_id=%d", entryID, userID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
