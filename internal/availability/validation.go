package availability

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-TherapyBookingService/internal/domain"
)

// validateConfig проверяет инварианты конфигурации и возвращает первое нарушение
// Дубликаты дат в customSchedule ошибкой не считаются
func validateConfig(cfg *domain.AvailabilityConfig) (*time.Location, error) {
	if cfg == nil {
		return nil, configErrorf("config", "is required")
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, configErrorf("timeZone", "unknown time zone %q", cfg.TimeZone)
	}

	for i, d := range cfg.WorkingDays {
		if d < time.Sunday || d > time.Saturday {
			return nil, configErrorf(fmt.Sprintf("workingDays[%d]", i), "weekday %d out of range 0..6", int(d))
		}
	}

	hours, err := validateRange("workingHours", cfg.WorkingHours)
	if err != nil {
		return nil, err
	}

	for i, b := range cfg.Breaks {
		field := fmt.Sprintf("breaks[%d]", i)
		r, err := validateRange(field, b)
		if err != nil {
			return nil, err
		}
		if r.start < hours.start || r.end > hours.end {
			return nil, configErrorf(field, "break %s-%s must lie within working hours %s-%s",
				b.Start, b.End, cfg.WorkingHours.Start, cfg.WorkingHours.End)
		}
	}

	for i, d := range cfg.BlockedDates {
		if err := d.Validate(); err != nil {
			return nil, configErrorf(fmt.Sprintf("blockedDates[%d]", i), "%v", err)
		}
	}

	for i, entry := range cfg.CustomSchedule {
		field := fmt.Sprintf("customSchedule[%d]", i)
		if err := entry.Date.Validate(); err != nil {
			return nil, configErrorf(field+".date", "%v", err)
		}
		// На недоступной дате часы не действуют: блокировка важнее
		if entry.CustomHours == nil || !entry.Available {
			continue
		}
		if _, err := validateRange(field+".customHours", *entry.CustomHours); err != nil {
			return nil, err
		}
	}

	if cfg.BufferMinutes < 0 {
		return nil, configErrorf("bufferTime", "must not be negative, got %d", cfg.BufferMinutes)
	}

	if cfg.MaxAdvanceBookingDays < 0 {
		return nil, configErrorf("maxAdvanceBooking", "must not be negative, got %d", cfg.MaxAdvanceBookingDays)
	}

	if cfg.MinAdvanceNoticeHours < 0 {
		return nil, configErrorf("minAdvanceNotice", "must not be negative, got %d", cfg.MinAdvanceNoticeHours)
	}

	return loc, nil
}

// validateRange проверяет формат HH:MM и start < end
func validateRange(field string, r domain.TimeRange) (minuteRange, error) {
	if err := r.Start.Validate(); err != nil {
		return minuteRange{}, configErrorf(field+".start", "%v", err)
	}
	if err := r.End.Validate(); err != nil {
		return minuteRange{}, configErrorf(field+".end", "%v", err)
	}

	mr, err := toMinuteRange(r)
	if err != nil {
		return minuteRange{}, configErrorf(field, "%v", err)
	}
	if mr.start >= mr.end {
		return minuteRange{}, configErrorf(field, "start %s must be before end %s", r.Start, r.End)
	}
	return mr, nil
}

func validateSlotParams(durationMinutes, stepMinutes int) error {
	if durationMinutes <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %d", ErrInvalidCandidate, durationMinutes)
	}
	if stepMinutes <= 0 {
		return fmt.Errorf("%w: step must be positive, got %d", ErrInvalidCandidate, stepMinutes)
	}
	return nil
}
