package remove_waitlist

import (
	"errors"
	"net/http"

	"github.com/inksync/studio-booking/internal/api/handlers"
	"github.com/inksync/studio-booking/internal/api/middleware"
	"github.com/inksync/studio-booking/internal/service/waitlist"
)

const (
	msgInvalidEntryID = "некорректный ID заявки"
	msgMissingUserID  = "отсутствует ID пользователя"
	msgNotFound       = "заявка не найдена"
	msgForbidden      = "доступ запрещен"
	msgInactive       = "заявка уже неактивна"
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

// Handle DELETE /api/v1/waitlist/{entryId}
// Заявка не удаляется физически, а становится неактивной
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	entryID, err := handlers.PathInt64(r, "entryId")
	if err != nil {
		h.logger.Warn("DELETE /waitlist/{id} - Invalid entry ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEntryID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /waitlist/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	if err := h.service.Remove(r.Context(), entryID, userID); err != nil {
		switch {
		case errors.Is(err, waitlist.ErrEntryNotFound):
			h.logger.Warn("DELETE /waitlist/{id} - Entry not found: entry_id=%d", entryID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, waitlist.ErrAccessDenied):
			h.logger.Warn("DELETE /waitlist/{id} - Access denied: entry_id=%d, user_id=%d", entryID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, waitlist.ErrEntryInactive):
			h.logger.Warn("DELETE /waitlist/{id} - Entry inactive: entry_id=%d", entryID)
			handlers.RespondConflict(w, msgInactive)

		default:
			h.logger.Error("DELETE /waitlist/{id} - Failed to remove entry: entry_id=%d, error=%v", entryID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /waitlist/{id} - Entry removed: entry_id=%d, user_id=%d", entryID, userID)
	w.WriteHeader(http.StatusNoContent)
}
