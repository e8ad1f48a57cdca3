package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TherapyBookingService/internal/domain"
)

// EventType тип события жизненного цикла бронирования
type EventType string

const (
	EventBookingCreated       EventType = "booking.created"
	EventBookingCancelled     EventType = "booking.cancelled"
	EventBookingStatusChanged EventType = "booking.status_changed"
	EventBookingPaid          EventType = "booking.paid"
	EventBookingRefunded      EventType = "booking.refunded"
)

// BookingEvent событие для сервиса уведомлений (email/SMS отправляются там)
type BookingEvent struct {
	EventID         string    `json:"event_id"`
	Type            EventType `json:"type"`
	OccurredAt      time.Time `json:"occurred_at"`
	BookingID       int64     `json:"booking_id"`
	ClientID        int64     `json:"client_id"`
	TherapistID     int64     `json:"therapist_id"`
	ServiceID       int64     `json:"service_id"`
	ServiceName     string    `json:"service_name"`
	StartAt         time.Time `json:"start_at"`
	DurationMinutes int       `json:"duration_minutes"`
	Status          string    `json:"status"`
	PaymentStatus   string    `json:"payment_status"`
	FinalPrice      float64   `json:"final_price"`
	PaymentLink     *string   `json:"payment_link,omitempty"`
	ClientName      *string   `json:"client_name,omitempty"`
	ClientEmail     *string   `json:"client_email,omitempty"`
	Reason          *string   `json:"reason,omitempty"`
}

// NewBookingEvent создает событие по текущему состоянию бронирования
func NewBookingEvent(eventType EventType, b *domain.Booking, occurredAt time.Time) BookingEvent {
	return BookingEvent{
		EventID:         uuid.NewString(),
		Type:            eventType,
		OccurredAt:      occurredAt.UTC(),
		BookingID:       b.ID,
		ClientID:        b.ClientID,
		TherapistID:     b.TherapistID,
		ServiceID:       b.ServiceID,
		ServiceName:     b.ServiceName,
		StartAt:         b.StartAt.UTC(),
		DurationMinutes: b.DurationMinutes,
		Status:          string(b.Status),
		PaymentStatus:   string(b.PaymentStatus),
		FinalPrice:      b.FinalPrice,
		PaymentLink:     b.PaymentLink,
		ClientName:      b.ClientName,
		ClientEmail:     b.ClientEmail,
		Reason:          b.CancellationReason,
	}
}
