package get_available_slots

import (
	"strconv"
	"time"

	getAvailableSlots "github.com/m04kA/SMC-TherapyBookingService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-TherapyBookingService/pkg/types"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	TherapistID     int64          `json:"therapistId"`
	ServiceID       int64          `json:"serviceId"`
	TimeZone        string         `json:"timeZone"`
	DurationMinutes int            `json:"durationMinutes"`
	StepMinutes     int            `json:"stepMinutes"`
	Days            []AvailableDay `json:"days"`
}

// AvailableDay слоты одной даты
type AvailableDay struct {
	Date  string          `json:"date"`
	Slots []AvailableSlot `json:"slots"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	StartTime string `json:"startTime"` // "10:00" по часам терапевта
	StartAt   string `json:"startAt"`   // RFC 3339, передаётся в POST /bookings как есть
	EndAt     string `json:"endAt"`
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(therapistID, serviceID int64, from, to, step string) (*getAvailableSlots.Request, error) {
	req := &getAvailableSlots.Request{
		TherapistID: therapistID,
		ServiceID:   serviceID,
		From:        types.DateString(from),
		To:          types.DateString(to),
	}

	if step != "" {
		minutes, err := strconv.Atoi(step)
		if err != nil {
			return nil, err
		}
		req.StepMinutes = minutes
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	days := make([]AvailableDay, 0, len(resp.Days))
	for _, day := range resp.Days {
		slots := make([]AvailableSlot, len(day.Slots))
		for i, slot := range day.Slots {
			slots[i] = AvailableSlot{
				StartTime: slot.StartTime.String(),
				StartAt:   slot.StartAt.Format(time.RFC3339),
				EndAt:     slot.EndAt.Format(time.RFC3339),
			}
		}
		days = append(days, AvailableDay{Date: day.Date.String(), Slots: slots})
	}

	return &AvailableSlotsResponse{
		TherapistID:     resp.TherapistID,
		ServiceID:       resp.ServiceID,
		TimeZone:        resp.TimeZone,
		DurationMinutes: resp.DurationMinutes,
		StepMinutes:     resp.StepMinutes,
		Days:            days,
	}
}
