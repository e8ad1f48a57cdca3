package create_booking

import "time"

// Request модель запроса на создание бронирования
type Request struct {
	ClientID    int64     // ID клиента (из заголовка X-User-ID)
	TherapistID int64     // ID терапевта
	ServiceID   int64     // ID услуги в каталоге
	StartAt     time.Time // Начало сессии
	CouponCode  *string   // Код купона (опционально)
	Notes       *string   // Заметки клиента (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID              int64
	ClientID        int64
	TherapistID     int64
	ServiceID       int64
	StartAt         time.Time
	EndAt           time.Time
	DurationMinutes int
	Status          string

	// Денормализованные данные
	ServiceName    string
	ServicePrice   float64
	DiscountAmount float64
	FinalPrice     float64
	CouponCode     *string
	Notes          *string

	PaymentStatus string
	PaymentLink   *string

	CreatedAt time.Time
}
