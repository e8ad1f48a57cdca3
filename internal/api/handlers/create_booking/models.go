package create_booking

import (
	"time"

	createBooking "github.com/m04kA/SMC-TherapyBookingService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	TherapistID int64   `json:"therapistId"`
	ServiceID   int64   `json:"serviceId"`
	StartAt     string  `json:"startAt"` // RFC 3339, "2025-10-15T10:00:00+03:00"
	CouponCode  *string `json:"couponCode,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID              int64   `json:"id"`
	ClientID        int64   `json:"clientId"`
	TherapistID     int64   `json:"therapistId"`
	ServiceID       int64   `json:"serviceId"`
	StartAt         string  `json:"startAt"`
	EndAt           string  `json:"endAt"`
	DurationMinutes int     `json:"durationMinutes"`
	Status          string  `json:"status"`
	ServiceName     string  `json:"serviceName"`
	ServicePrice    float64 `json:"servicePrice"`
	DiscountAmount  float64 `json:"discountAmount"`
	FinalPrice      float64 `json:"finalPrice"`
	CouponCode      *string `json:"couponCode,omitempty"`
	Notes           *string `json:"notes,omitempty"`
	PaymentStatus   string  `json:"paymentStatus"`
	PaymentLink     *string `json:"paymentLink,omitempty"`
	CreatedAt       string  `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(clientID int64) (*createBooking.Request, error) {
	startAt, err := time.Parse(time.RFC3339, r.StartAt)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		ClientID:    clientID,
		TherapistID: r.TherapistID,
		ServiceID:   r.ServiceID,
		StartAt:     startAt,
		CouponCode:  r.CouponCode,
		Notes:       r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:              resp.ID,
		ClientID:        resp.ClientID,
		TherapistID:     resp.TherapistID,
		ServiceID:       resp.ServiceID,
		StartAt:         resp.StartAt.Format(time.RFC3339),
		EndAt:           resp.EndAt.Format(time.RFC3339),
		DurationMinutes: resp.DurationMinutes,
		Status:          resp.Status,
		ServiceName:     resp.ServiceName,
		ServicePrice:    resp.ServicePrice,
		DiscountAmount:  resp.DiscountAmount,
		FinalPrice:      resp.FinalPrice,
		CouponCode:      resp.CouponCode,
		Notes:           resp.Notes,
		PaymentStatus:   resp.PaymentStatus,
		PaymentLink:     resp.PaymentLink,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
	}
}
