package get_available_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-TherapyBookingService/internal/domain"
	"github.com/m04kA/SMC-TherapyBookingService/pkg/types"
)

// validateRequest валидирует входные данные и подставляет значения по умолчанию
func validateRequest(req *Request, opts Options) error {
	if req.TherapistID <= 0 {
		return fmt.Errorf("%w: therapistID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if err := req.From.Validate(); err != nil {
		return fmt.Errorf("%w: invalid from date: %v", ErrInvalidInput, err)
	}

	if req.To.IsZero() {
		req.To = req.From
	}
	if err := req.To.Validate(); err != nil {
		return fmt.Errorf("%w: invalid to date: %v", ErrInvalidInput, err)
	}

	if req.To.Before(req.From) {
		return fmt.Errorf("%w: to must not be before from", ErrInvalidInput)
	}

	days, err := rangeDays(req.From, req.To)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if days > opts.MaxRangeDays {
		return fmt.Errorf("%w: %d days requested, at most %d allowed", ErrRangeTooLong, days, opts.MaxRangeDays)
	}

	if req.StepMinutes == 0 {
		req.StepMinutes = opts.DefaultStepMinutes
	}
	if req.StepMinutes < 0 || req.StepMinutes > domain.MaxSessionDurationMinutes {
		return fmt.Errorf("%w: step must be between 1 and %d minutes", ErrInvalidInput, domain.MaxSessionDurationMinutes)
	}

	return nil
}

// rangeDays возвращает количество дат в периоде [from, to]
func rangeDays(from, to types.DateString) (int, error) {
	start, err := from.Time(time.UTC)
	if err != nil {
		return 0, err
	}
	end, err := to.Time(time.UTC)
	if err != nil {
		return 0, err
	}
	return int(end.Sub(start)/(24*time.Hour)) + 1, nil
}
