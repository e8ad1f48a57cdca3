package catalogservice

// Service услуга терапевта из каталога
type Service struct {
	ID              int64   `json:"id"`
	TherapistID     int64   `json:"therapist_id"`
	Name            string  `json:"name"`
	DurationMinutes int     `json:"duration_minutes"`
	Price           float64 `json:"price"`
	IsActive        bool    `json:"is_active"`
}

// ErrorResponse модель ошибки от каталога
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
