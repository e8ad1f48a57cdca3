package availability

import (
	"fmt"

	"github.com/m04kA/SMC-TherapyBookingService/internal/domain"
)

// validateLimits проверяет ограничения, которые продукт накладывает поверх инвариантов движка
func validateLimits(cfg *domain.AvailabilityConfig) error {
	if cfg.BufferMinutes > domain.MaxBufferMinutes {
		return fmt.Errorf("%w: bufferTime: must be at most %d minutes, got %d",
			ErrInvalidInput, domain.MaxBufferMinutes, cfg.BufferMinutes)
	}
	if cfg.MaxAdvanceBookingDays > domain.MaxAdvanceBookingDays {
		return fmt.Errorf("%w: maxAdvanceBooking: must be at most %d days, got %d",
			ErrInvalidInput, domain.MaxAdvanceBookingDays, cfg.MaxAdvanceBookingDays)
	}
	if cfg.MinAdvanceNoticeHours > domain.MaxAdvanceNoticeHours {
		return fmt.Errorf("%w: minAdvanceNotice: must be at most %d hours, got %d",
			ErrInvalidInput, domain.MaxAdvanceNoticeHours, cfg.MinAdvanceNoticeHours)
	}
	return nil
}
