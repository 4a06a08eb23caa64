package create_booking

import (
	"errors"
	"net/http"

	"github.com/inksync/studio-booking/internal/api/handlers"
	"github.com/inksync/studio-booking/internal/api/middleware"
	createBooking "github.com/inksync/studio-booking/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidStartTime     = "некорректное время начала, ожидается RFC3339"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgInvalidInput         = "некорректные данные бронирования"
	msgResourceNotFound     = "мастер не найден"
	msgOfferingNotFound     = "услуга не найдена"
	msgOfferingMismatch     = "услуга не принадлежит выбранному мастеру"
	msgResourceUnavailable  = "мастер сейчас не принимает записи"
	msgStartInPast          = "нельзя записаться на прошедшее время"
	msgOutsideWorkingHours  = "сеанс выходит за рабочие часы мастера"
	msgInvalidWaitlistEntry = "заявка листа ожидания недействительна"
	msgSlotNotAvailable     = "выбранное время уже занято"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStartTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotNotAvailable):
			h.logger.Warn("POST /bookings - Slot not available: user_id=%d, resource_id=%d", userID, req.ResourceID)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, createBooking.ErrResourceNotFound):
			h.logger.Warn("POST /bookings - Resource not found: resource_id=%d", req.ResourceID)
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, createBooking.ErrOfferingNotFound):
			h.logger.Warn("POST /bookings - Offering not found: offering_id=%d", req.OfferingID)
			handlers.RespondNotFound(w, msgOfferingNotFound)

		case errors.Is(err, createBooking.ErrOfferingMismatch):
			h.logger.Warn("POST /bookings - Offering mismatch: resource_id=%d, offering_id=%d", req.ResourceID, req.OfferingID)
			handlers.RespondBadRequest(w, msgOfferingMismatch)

		case errors.Is(err, createBooking.ErrResourceUnavailable):
			h.logger.Warn("POST /bookings - Resource unavailable: resource_id=%d", req.ResourceID)
			handlers.RespondBadRequest(w, msgResourceUnavailable)

		case errors.Is(err, createBooking.ErrStartInPast):
			h.logger.Warn("POST /bookings - Start in past: user_id=%d, start=%s", userID, req.StartTime)
			handlers.RespondBadRequest(w, msgStartInPast)

		case errors.Is(err, createBooking.ErrOutsideWorkingHours):
			h.logger.Warn("POST /bookings - Outside working hours: resource_id=%d, start=%s", req.ResourceID, req.StartTime)
			handlers.RespondBadRequest(w, msgOutsideWorkingHours)

		case errors.Is(err, createBooking.ErrInvalidWaitlistEntry):
			h.logger.Warn("POST /bookings - Invalid waitlist entry: user_id=%d", userID)
			handlers.RespondBadRequest(w, msgInvalidWaitlistEntry)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%d, resource_id=%d, error=%v",
				userID, req.ResourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, user_id=%d, resource_id=%d",
		result.ID, userID, req.ResourceID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
