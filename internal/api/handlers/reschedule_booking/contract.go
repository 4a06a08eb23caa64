package reschedule_booking

import (
	"context"

	"github.com/inksync/studio-booking/internal/service/bookings/models"
	rescheduleBooking "github.com/inksync/studio-booking/internal/usecase/reschedule_booking"
)

type RescheduleBookingUseCase interface {
	Execute(ctx context.Context, req *rescheduleBooking.Request) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
