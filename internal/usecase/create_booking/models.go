package create_booking

import "time"

// Request модель запроса на создание бронирования
type Request struct {
	CustomerID      int64     // ID клиента (Telegram ID)
	ResourceID      int64     // ID мастера
	OfferingID      int64     // ID услуги
	StartTime       time.Time // Время начала сеанса
	Notes           *string   // Дополнительные заметки (опционально)
	WaitlistEntryID *int64    // Заявка листа ожидания, из которой создается запись (опционально)
}
