package cancel_booking

import (
	"github.com/inksync/studio-booking/internal/service/bookings/models"
)

// Request модель запроса на отмену бронирования
type Request struct {
	BookingID   int64  // ID бронирования
	RequesterID int64  // Клиент или владелец ресурса
	Reason      string // Причина отмены
}

// ResourceOption мастер, к которому можно перезаписаться
type ResourceOption struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
}

// Alternatives варианты замены отмененного сеанса
type Alternatives struct {
	Message   string           `json:"message"`
	Resources []ResourceOption `json:"resources"`
	Dates     []string         `json:"dates"`
}

// Response модель ответа на отмену
type Response struct {
	Booking      *models.BookingResponse `json:"booking"`
	Alternatives *Alternatives           `json:"alternatives"`
}
