package domain

import (
	"slices"
	"time"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// IsValid returns true if the status is one of the known statuses
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// PaymentStatus represents the payment state of a booking
type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// IsValid returns true if the payment status is one of the known statuses
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentUnpaid, PaymentPaid, PaymentRefunded:
		return true
	}
	return false
}

// Booking represents a therapy session booking
type Booking struct {
	ID              int64
	ClientID        int64
	TherapistID     int64
	ServiceID       int64
	StartAt         time.Time
	DurationMinutes int
	Status          BookingStatus

	// Denormalized data for history
	ServiceName    string
	ServicePrice   float64
	DiscountAmount float64
	FinalPrice     float64
	CouponCode     *string
	ClientName     *string
	ClientEmail    *string
	Notes          *string

	PaymentStatus PaymentStatus
	PaymentLink   *string
	PaidAt        *time.Time

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EndAt returns the instant the session ends
func (b *Booking) EndAt() time.Time {
	return b.StartAt.Add(time.Duration(b.DurationMinutes) * time.Minute)
}

// OccupiesCalendar returns true if the booking blocks the therapist's time
// Only bookings in InactiveStatuses free the calendar
func (b *Booking) OccupiesCalendar() bool {
	return !slices.Contains(InactiveStatuses, b.Status)
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanTransitionTo returns true if the status change is allowed
// pending -> confirmed -> completed, pending/confirmed -> cancelled
func (b *Booking) CanTransitionTo(next BookingStatus) bool {
	switch b.Status {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusCompleted || next == StatusCancelled
	default:
		return false
	}
}

// CanChangePaymentTo returns true if the payment status change is allowed
// unpaid -> paid -> refunded
func (b *Booking) CanChangePaymentTo(next PaymentStatus) bool {
	switch b.PaymentStatus {
	case PaymentUnpaid:
		return next == PaymentPaid
	case PaymentPaid:
		return next == PaymentRefunded
	default:
		return false
	}
}

// TherapistBookingsFilter фильтр для получения бронирований терапевта
type TherapistBookingsFilter struct {
	TherapistID     int64          // Обязательный параметр
	From            *time.Time     // Начало периода (опционально, включительно)
	To              *time.Time     // Конец периода (опционально, исключительно)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли отменённые бронирования
}
