package recommend_resource

import (
	"errors"
	"net/http"

	"github.com/inksync/studio-booking/internal/api/handlers"
	recommendResource "github.com/inksync/studio-booking/internal/usecase/recommend_resource"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidPreferences = "некорректные пожелания: проверьте стиль, размер и бюджет"
)

type Handler struct {
	useCase RecommendResourceUseCase
	logger  Logger
}

func NewHandler(useCase RecommendResourceUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/advisor/recommend
// Публичный endpoint - без авторизации
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req recommendResource.Request
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /advisor/recommend - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &req)
	if err != nil {
		if errors.Is(err, recommendResource.ErrInvalidInput) {
			h.logger.Warn("POST /advisor/recommend - Invalid preferences: %v", err)
			handlers.RespondBadRequest(w, msgInvalidPreferences)
			return
		}

		h.logger.Error("POST /advisor/recommend - Failed to recommend resource: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /advisor/recommend - Recommendation ready: found=%t", result.Resource != nil)
	handlers.RespondJSON(w, http.StatusOK, result)
}
