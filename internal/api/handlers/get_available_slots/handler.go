package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/inksync/studio-booking/internal/api/handlers"
	getAvailableSlots "github.com/inksync/studio-booking/internal/usecase/get_available_slots"
)

const (
	msgInvalidResourceID = "некорректный ID мастера"
	msgInvalidOfferingID = "некорректный ID услуги"
	msgMissingDate       = "дата обязательна"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidParams     = "некорректные параметры запроса"
	msgResourceNotFound  = "мастер не найден"
	msgOfferingNotFound  = "услуга не найдена"
	msgOfferingMismatch  = "услуга не принадлежит выбранному мастеру"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/resources/{resourceId}/offerings/{offeringId}/start-times
// Query params: date (required, YYYY-MM-DD), granularity (опционально, минуты)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	resourceID, err := handlers.PathInt64(r, "resourceId")
	if err != nil {
		h.logger.Warn("GET /resources/{id}/offerings/{id}/start-times - Invalid resource ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	offeringID, err := handlers.PathInt64(r, "offeringId")
	if err != nil {
		h.logger.Warn("GET /resources/{id}/offerings/{id}/start-times - Invalid offering ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOfferingID)
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /resources/{id}/offerings/{id}/start-times - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	useCaseReq, err := ToUseCaseRequest(resourceID, offeringID, dateStr, r.URL.Query().Get("granularity"))
	if err != nil {
		h.logger.Warn("GET /resources/{id}/offerings/{id}/start-times - Invalid granularity: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrInvalidDate):
			h.logger.Warn("GET /resources/{id}/offerings/{id}/start-times - Invalid date: %s", dateStr)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /resources/{id}/offerings/{id}/start-times - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		case errors.Is(err, getAvailableSlots.ErrResourceNotFound):
			h.logger.Warn("GET /resources/{id}/offerings/{id}/start-times - Resource not found: resource_id=%d", resourceID)
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, getAvailableSlots.ErrOfferingNotFound):
			h.logger.Warn("GET /resources/{id}/offerings/{id}/start-times - Offering not found: offering_id=%d", offeringID)
			handlers.RespondNotFound(w, msgOfferingNotFound)

		case errors.Is(err, getAvailableSlots.ErrOfferingMismatch):
			h.logger.Warn("GET /resources/{id}/offerings/{id}/start-times - Offering mismatch: resource_id=%d, offering_id=%d",
				resourceID, offeringID)
			handlers.RespondBadRequest(w, msgOfferingMismatch)

		default:
			h.logger.Error("GET /resources/{id}/offerings/{id}/start-times - Failed to get start times: resource_id=%d, offering_id=%d, error=%v",
				resourceID, offeringID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /resources/{id}/offerings/{id}/start-times - Start times retrieved: resource_id=%d, offering_id=%d, count=%d",
		resourceID, offeringID, len(result.StartTimes))
	handlers.RespondJSON(w, http.StatusOK, result)
}
