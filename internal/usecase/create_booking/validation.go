package create_booking

import (
	"fmt"

	"github.com/m04kA/SMC-TherapyBookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ClientID <= 0 {
		return fmt.Errorf("%w: clientID must be positive", ErrInvalidInput)
	}

	if req.TherapistID <= 0 {
		return fmt.Errorf("%w: therapistID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.StartAt.IsZero() {
		return fmt.Errorf("%w: startAt is required", ErrInvalidInput)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	if req.CouponCode != nil {
		code, ok := domain.NormalizeCouponCode(*req.CouponCode)
		if !ok {
			return fmt.Errorf("%w: malformed coupon code", ErrInvalidInput)
		}
		req.CouponCode = &code
	}

	return nil
}

// validateDuration проверяет длительность услуги из каталога
func validateDuration(durationMinutes int) error {
	if durationMinutes < domain.MinSessionDurationMinutes || durationMinutes > domain.MaxSessionDurationMinutes {
		return fmt.Errorf("%w: service duration %d is outside [%d, %d] minutes", ErrInternal,
			durationMinutes, domain.MinSessionDurationMinutes, domain.MaxSessionDurationMinutes)
	}
	return nil
}
