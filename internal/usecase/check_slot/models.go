package check_slot

import (
	"time"

	"github.com/m04kA/SMC-TherapyBookingService/internal/availability"
)

// Request модель запроса на проверку слота
type Request struct {
	TherapistID int64
	ServiceID   int64
	StartAt     time.Time
}

// Response вердикт по слоту
type Response struct {
	TherapistID     int64
	ServiceID       int64
	StartAt         time.Time
	EndAt           time.Time
	DurationMinutes int
	OK              bool
	Reason          availability.ReasonCode // пустая, если OK
}
