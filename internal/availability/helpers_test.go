package availability_test

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TherapyBookingService/internal/domain"
	"github.com/m04kA/SMC-TherapyBookingService/pkg/types"
)

const therapistID int64 = 7

func at(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return parsed
}

func weekdays() []time.Weekday {
	return []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}
}

func hours(start, end string) domain.TimeRange {
	return domain.TimeRange{Start: types.TimeString(start), End: types.TimeString(end)}
}

// baseConfig: Пн-Пт 09:00-17:00, перерыв 12:00-13:00, без буфера и уведомления, горизонт год
func baseConfig() *domain.AvailabilityConfig {
	return &domain.AvailabilityConfig{
		TherapistID:           therapistID,
		TimeZone:              "UTC",
		WorkingDays:           weekdays(),
		WorkingHours:          hours("09:00", "17:00"),
		Breaks:                []domain.TimeRange{hours("12:00", "13:00")},
		MaxAdvanceBookingDays: 365,
	}
}

func booking(t *testing.T, start string, minutes int, status domain.BookingStatus) *domain.Booking {
	t.Helper()
	return &domain.Booking{
		TherapistID:     therapistID,
		StartAt:         at(t, start),
		DurationMinutes: minutes,
		Status:          status,
	}
}
