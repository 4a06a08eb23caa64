package list_resources

import (
	"net/http"

	"github.com/inksync/studio-booking/internal/api/handlers"
)

const msgInvalidParams = "некорректные параметры запроса"

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

// Handle GET /api/v1/resources
// Query params: available (опционально, true = только принимающие записи)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	onlyAvailable, err := handlers.QueryBool(r, "available")
	if err != nil {
		h.logger.Warn("GET /resources - Invalid available flag: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.List(r.Context(), onlyAvailable)
	if err != nil {
		h.logger.Error("GET /resources - Failed to list resources: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /resources - Resources listed: count=%d", len(result.Resources))
	handlers.RespondJSON(w, http.StatusOK, result)
}
