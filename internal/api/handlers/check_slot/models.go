package check_slot

import (
	"time"

	checkSlot "github.com/m04kA/SMC-TherapyBookingService/internal/usecase/check_slot"
)

// SlotCheckResponse HTTP response model
type SlotCheckResponse struct {
	TherapistID     int64  `json:"therapistId"`
	ServiceID       int64  `json:"serviceId"`
	StartAt         string `json:"startAt"`
	EndAt           string `json:"endAt"`
	DurationMinutes int    `json:"durationMinutes"`
	OK              bool   `json:"ok"`
	Reason          string `json:"reason,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *checkSlot.Response) *SlotCheckResponse {
	return &SlotCheckResponse{
		TherapistID:     resp.TherapistID,
		ServiceID:       resp.ServiceID,
		StartAt:         resp.StartAt.Format(time.RFC3339),
		EndAt:           resp.EndAt.Format(time.RFC3339),
		DurationMinutes: resp.DurationMinutes,
		OK:              resp.OK,
		Reason:          resp.Reason.String(),
	}
}
