package create_booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inksync/studio-booking/internal/api/handlers"
	"github.com/inksync/studio-booking/internal/api/middleware"
	"github.com/inksync/studio-booking/internal/service/bookings/models"
	createBooking "github.com/inksync/studio-booking/internal/usecase/create_booking"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type stubUseCase struct {
	got *createBooking.Request
	err error
}

func (s *stubUseCase) Execute(_ context.Context, req *createBooking.Request) (*models.BookingResponse, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return &models.BookingResponse{
		ID:         1,
		CustomerID: req.CustomerID,
		ResourceID: req.ResourceID,
		OfferingID: req.OfferingID,
		StartTime:  req.StartTime,
		Status:     "scheduled",
	}, nil
}

const validBody = `{"resourceId":3,"offeringId":5,"startTime":"2025-03-10T14:00:00+03:00"}`

func serve(h *Handler, body string, userID int64) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	if userID > 0 {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle_Created(t *testing.T) {
	uc := &stubUseCase{}
	rec := serve(NewHandler(uc, nopLogger{}), validBody, 7)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, uc.got)
	assert.Equal(t, int64(7), uc.got.CustomerID)
	assert.Equal(t, int64(3), uc.got.ResourceID)
	assert.True(t, uc.got.StartTime.Equal(time.Date(2025, 3, 10, 11, 0, 0, 0, time.UTC)))

	var resp models.BookingResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "scheduled", resp.Status)
}

func TestHandle_BadRequests(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		userID int64
		status int
	}{
		{name: "no user", body: validBody, status: http.StatusUnauthorized},
		{name: "empty body", body: "", userID: 7, status: http.StatusBadRequest},
		{name: "unknown field", body: `{"resourceId":3,"price":1}`, userID: 7, status: http.StatusBadRequest},
		{name: "bad start time", body: `{"resourceId":3,"offeringId":5,"startTime":"10.03.2025 14:00"}`, userID: 7, status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &stubUseCase{}
			rec := serve(NewHandler(uc, nopLogger{}), tt.body, tt.userID)

			assert.Equal(t, tt.status, rec.Code)
			assert.Nil(t, uc.got, "use case must not be called")
		})
	}
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
		msg    string
	}{
		{err: createBooking.ErrSlotNotAvailable, status: http.StatusConflict, msg: msgSlotNotAvailable},
		{err: createBooking.ErrResourceNotFound, status: http.StatusNotFound, msg: msgResourceNotFound},
		{err: createBooking.ErrOfferingNotFound, status: http.StatusNotFound, msg: msgOfferingNotFound},
		{err: createBooking.ErrOfferingMismatch, status: http.StatusBadRequest, msg: msgOfferingMismatch},
		{err: createBooking.ErrResourceUnavailable, status: http.StatusBadRequest, msg: msgResourceUnavailable},
		{err: createBooking.ErrStartInPast, status: http.StatusBadRequest, msg: msgStartInPast},
		{err: createBooking.ErrOutsideWorkingHours, status: http.StatusBadRequest, msg: msgOutsideWorkingHours},
		{err: createBooking.ErrInvalidWaitlistEntry, status: http.StatusBadRequest, msg: msgInvalidWaitlistEntry},
		{err: createBooking.ErrInvalidInput, status: http.StatusBadRequest, msg: msgInvalidInput},
		{err: fmt.Errorf("%w: db down", createBooking.ErrInternal), status: http.StatusInternalServerError},
		{err: errors.New("unexpected"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := serve(NewHandler(&stubUseCase{err: tt.err}, nopLogger{}), validBody, 7)

			require.Equal(t, tt.status, rec.Code)

			var resp handlers.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, tt.status, resp.Code)
			if tt.msg != "" {
				assert.Equal(t, tt.msg, resp.Message)
			}
			assert.NotContains(t, resp.Message, "db down")
		})
	}
}
