package availability_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TherapyBookingService/internal/availability"
	"github.com/m04kA/SMC-TherapyBookingService/internal/domain"
	"github.com/m04kA/SMC-TherapyBookingService/pkg/types"
)

func check(t *testing.T, cfg *domain.AvailabilityConfig, start string, minutes int, bookings []*domain.Booking, now string) availability.Verdict {
	t.Helper()
	verdict, err := availability.IsSlotBookable(cfg, availability.Candidate{
		Start:           at(t, start),
		DurationMinutes: minutes,
	}, bookings, at(t, now))
	require.NoError(t, err)
	return verdict
}

func TestIsSlotBookable_AdvanceNotice(t *testing.T) {
	cfg := baseConfig()
	cfg.Breaks = nil
	cfg.MinAdvanceNoticeHours = 2
	now := "2025-01-01T10:00:00Z"

	t.Run("too soon", func(t *testing.T) {
		v := check(t, cfg, "2025-01-01T11:30:00Z", 60, nil, now)
		assert.False(t, v.OK)
		assert.Equal(t, availability.ReasonTooSoon, v.Reason)
	})

	t.Run("exactly at notice boundary", func(t *testing.T) {
		v := check(t, cfg, "2025-01-01T12:00:00Z", 60, nil, now)
		assert.True(t, v.OK)
	})

	t.Run("after notice", func(t *testing.T) {
		v := check(t, cfg, "2025-01-01T12:30:00Z", 60, nil, now)
		assert.True(t, v.OK)
	})

	t.Run("in the past", func(t *testing.T) {
		v := check(t, cfg, "2024-12-31T10:00:00Z", 60, nil, now)
		assert.Equal(t, availability.ReasonTooSoon, v.Reason)
	})
}

func TestIsSlotBookable_MaxAdvance(t *testing.T) {
	cfg := baseConfig()
	cfg.MaxAdvanceBookingDays = 30
	now := "2025-01-01T10:00:00Z"

	t.Run("35 days out", func(t *testing.T) {
		v := check(t, cfg, "2025-02-05T10:00:00Z", 60, nil, now)
		assert.False(t, v.OK)
		assert.Equal(t, availability.ReasonTooFar, v.Reason)
	})

	t.Run("inside horizon", func(t *testing.T) {
		v := check(t, cfg, "2025-01-30T10:00:00Z", 60, nil, now)
		assert.True(t, v.OK)
	})

	t.Run("zero days rejects every future slot", func(t *testing.T) {
		cfg := baseConfig()
		cfg.MaxAdvanceBookingDays = 0
		v := check(t, cfg, "2025-06-02T10:00:00Z", 60, nil, now)
		assert.False(t, v.OK)
		assert.Equal(t, availability.ReasonTooFar, v.Reason)

		v = check(t, cfg, "2025-01-02T10:00:00Z", 60, nil, now)
		assert.Equal(t, availability.ReasonTooFar, v.Reason)
	})

	t.Run("large horizon is accepted", func(t *testing.T) {
		cfg := baseConfig()
		cfg.MaxAdvanceBookingDays = 400
		v := check(t, cfg, "2026-01-05T10:00:00Z", 60, nil, now)
		assert.True(t, v.OK)
	})
}

func TestIsSlotBookable_UnavailableCustomDateIgnoresHours(t *testing.T) {
	cfg := baseConfig()
	ignored := hours("10:00", "12:00")
	cfg.CustomSchedule = []domain.CustomScheduleEntry{
		{Date: "2025-01-08", Available: false, CustomHours: &ignored},
	}

	v := check(t, cfg, "2025-01-08T10:00:00Z", 60, nil, "2025-01-01T10:00:00Z")
	assert.False(t, v.OK)
	assert.Equal(t, availability.ReasonDateBlocked, v.Reason)
}

func TestIsSlotBookable_BlockedDates(t *testing.T) {
	cfg := baseConfig()
	cfg.BlockedDates = []types.DateString{"2025-01-08"}
	cfg.CustomSchedule = []domain.CustomScheduleEntry{
		{Date: "2025-01-09", Available: false},
	}
	now := "2025-01-01T10:00:00Z"

	v := check(t, cfg, "2025-01-08T10:00:00Z", 60, nil, now)
	assert.Equal(t, availability.ReasonDateBlocked, v.Reason)

	v = check(t, cfg, "2025-01-09T10:00:00Z", 60, nil, now)
	assert.Equal(t, availability.ReasonDateBlocked, v.Reason)

	v = check(t, cfg, "2025-01-10T10:00:00Z", 60, nil, now)
	assert.True(t, v.OK)
}

func TestIsSlotBookable_WorkingDays(t *testing.T) {
	cfg := baseConfig()
	now := "2025-01-01T10:00:00Z"

	t.Run("saturday without override", func(t *testing.T) {
		v := check(t, cfg, "2025-01-04T10:00:00Z", 60, nil, now)
		assert.False(t, v.OK)
		assert.Equal(t, availability.ReasonNotWorkingDay, v.Reason)
	})

	t.Run("custom hours override a non-working day", func(t *testing.T) {
		cfg := baseConfig()
		cfg.WorkingDays = []time.Weekday{time.Monday, time.Tuesday, time.Thursday, time.Friday}
		custom := hours("14:00", "18:00")
		cfg.CustomSchedule = []domain.CustomScheduleEntry{
			{Date: "2025-01-15", Available: true, CustomHours: &custom},
		}

		v := check(t, cfg, "2025-01-15T15:00:00Z", 60, nil, now)
		assert.True(t, v.OK)

		// Часы из записи заменяют рабочие часы только на эту дату
		v = check(t, cfg, "2025-01-15T10:00:00Z", 60, nil, now)
		assert.Equal(t, availability.ReasonOutsideHours, v.Reason)
	})

	t.Run("available entry without hours keeps weekday rules", func(t *testing.T) {
		cfg := baseConfig()
		cfg.CustomSchedule = []domain.CustomScheduleEntry{
			{Date: "2025-01-04", Available: true},
		}
		v := check(t, cfg, "2025-01-04T10:00:00Z", 60, nil, now)
		assert.Equal(t, availability.ReasonNotWorkingDay, v.Reason)
	})

	t.Run("empty working days", func(t *testing.T) {
		cfg := baseConfig()
		cfg.WorkingDays = nil
		v := check(t, cfg, "2025-01-08T10:00:00Z", 60, nil, now)
		assert.Equal(t, availability.ReasonNotWorkingDay, v.Reason)
	})
}

func TestIsSlotBookable_WorkingHours(t *testing.T) {
	cfg := baseConfig()
	now := "2025-01-01T10:00:00Z"

	tests := []struct {
		name   string
		start  string
		ok     bool
		reason availability.ReasonCode
	}{
		{name: "starts before opening", start: "2025-01-08T08:30:00Z", reason: availability.ReasonOutsideHours},
		{name: "starts at opening", start: "2025-01-08T09:00:00Z", ok: true},
		{name: "ends exactly at closing", start: "2025-01-08T16:00:00Z", ok: true},
		{name: "ends after closing", start: "2025-01-08T16:30:00Z", reason: availability.ReasonOutsideHours},
		{name: "starts at closing", start: "2025-01-08T17:00:00Z", reason: availability.ReasonOutsideHours},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := check(t, cfg, tt.start, 60, nil, now)
			assert.Equal(t, tt.ok, v.OK)
			assert.Equal(t, tt.reason, v.Reason)
		})
	}
}

func TestIsSlotBookable_Breaks(t *testing.T) {
	now := "2025-01-01T10:00:00Z"

	tests := []struct {
		name   string
		start  string
		ok     bool
		reason availability.ReasonCode
	}{
		{name: "ends at break start", start: "2025-01-08T11:00:00Z", ok: true},
		{name: "overlaps break start by one minute", start: "2025-01-08T11:01:00Z", reason: availability.ReasonDuringBreak},
		{name: "inside break", start: "2025-01-08T12:00:00Z", reason: availability.ReasonDuringBreak},
		{name: "overlaps break end by one minute", start: "2025-01-08T12:59:00Z", reason: availability.ReasonDuringBreak},
		{name: "starts at break end", start: "2025-01-08T13:00:00Z", ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := check(t, baseConfig(), tt.start, 60, nil, now)
			assert.Equal(t, tt.ok, v.OK)
			assert.Equal(t, tt.reason, v.Reason)
		})
	}

	t.Run("overlapping breaks are unioned", func(t *testing.T) {
		cfg := baseConfig()
		cfg.Breaks = []domain.TimeRange{hours("12:15", "13:00"), hours("12:00", "12:30")}

		v := check(t, cfg, "2025-01-08T12:30:00Z", 15, nil, now)
		assert.Equal(t, availability.ReasonDuringBreak, v.Reason)

		v = check(t, cfg, "2025-01-08T13:00:00Z", 30, nil, now)
		assert.True(t, v.OK)
	})
}

func TestIsSlotBookable_BufferAndConflicts(t *testing.T) {
	cfg := baseConfig()
	cfg.BufferMinutes = 15
	now := "2025-01-01T10:00:00Z"
	existing := []*domain.Booking{
		booking(t, "2025-01-08T10:00:00Z", 60, domain.StatusConfirmed),
	}

	t.Run("starts exactly buffer after booking end", func(t *testing.T) {
		v := check(t, cfg, "2025-01-08T11:15:00Z", 30, existing, now)
		assert.True(t, v.OK)
	})

	t.Run("starts one minute inside buffer", func(t *testing.T) {
		v := check(t, cfg, "2025-01-08T11:14:00Z", 30, existing, now)
		assert.False(t, v.OK)
		assert.Equal(t, availability.ReasonConflict, v.Reason)
	})

	t.Run("ends exactly buffer before booking start", func(t *testing.T) {
		v := check(t, cfg, "2025-01-08T09:00:00Z", 45, existing, now)
		assert.True(t, v.OK)
	})

	t.Run("ends one minute inside buffer", func(t *testing.T) {
		v := check(t, cfg, "2025-01-08T09:00:00Z", 46, existing, now)
		assert.Equal(t, availability.ReasonConflict, v.Reason)
	})

	t.Run("same start as booking", func(t *testing.T) {
		v := check(t, cfg, "2025-01-08T10:00:00Z", 30, existing, now)
		assert.Equal(t, availability.ReasonConflict, v.Reason)
	})

	t.Run("pending and completed bookings block", func(t *testing.T) {
		for _, status := range []domain.BookingStatus{domain.StatusPending, domain.StatusCompleted} {
			bookings := []*domain.Booking{booking(t, "2025-01-08T10:00:00Z", 60, status)}
			v := check(t, cfg, "2025-01-08T10:30:00Z", 30, bookings, now)
			assert.Equal(t, availability.ReasonConflict, v.Reason, string(status))
		}
	})

	t.Run("cancelled booking never blocks", func(t *testing.T) {
		bookings := []*domain.Booking{booking(t, "2025-01-08T10:00:00Z", 60, domain.StatusCancelled)}
		v := check(t, cfg, "2025-01-08T10:00:00Z", 60, bookings, now)
		assert.True(t, v.OK)
	})

	t.Run("other therapist booking never blocks", func(t *testing.T) {
		other := booking(t, "2025-01-08T10:00:00Z", 60, domain.StatusConfirmed)
		other.TherapistID = therapistID + 1
		v := check(t, cfg, "2025-01-08T10:00:00Z", 60, []*domain.Booking{other}, now)
		assert.True(t, v.OK)
	})
}

func TestIsSlotBookable_CheckOrder(t *testing.T) {
	cfg := baseConfig()
	cfg.MinAdvanceNoticeHours = 48
	cfg.MaxAdvanceBookingDays = 10
	cfg.BlockedDates = []types.DateString{"2025-01-04"}
	now := "2025-01-01T10:00:00Z"

	// Заблокированная суббота, но слишком скоро: побеждает первая проверка
	v := check(t, baseConfigWith(cfg, 96), "2025-01-04T10:00:00Z", 60, nil, now)
	assert.Equal(t, availability.ReasonTooSoon, v.Reason)

	// Заблокированная суббота: DATE_BLOCKED раньше NOT_WORKING_DAY
	v = check(t, cfg, "2025-01-04T10:00:00Z", 60, nil, now)
	assert.Equal(t, availability.ReasonDateBlocked, v.Reason)

	// За горизонтом и в выходной: TOO_FAR раньше NOT_WORKING_DAY
	v = check(t, cfg, "2025-01-18T10:00:00Z", 60, nil, now)
	assert.Equal(t, availability.ReasonTooFar, v.Reason)

	// Перерыв и конфликт одновременно: DURING_BREAK раньше CONFLICT
	bookings := []*domain.Booking{booking(t, "2025-01-08T12:00:00Z", 60, domain.StatusConfirmed)}
	v = check(t, cfg, "2025-01-08T12:00:00Z", 60, bookings, now)
	assert.Equal(t, availability.ReasonDuringBreak, v.Reason)
}

func baseConfigWith(cfg *domain.AvailabilityConfig, noticeHours int) *domain.AvailabilityConfig {
	copied := *cfg
	copied.MinAdvanceNoticeHours = noticeHours
	return &copied
}

func TestIsSlotBookable_TimeZone(t *testing.T) {
	cfg := baseConfig()
	cfg.TimeZone = "Europe/Moscow" // UTC+3 без перехода на летнее время
	now := "2025-01-01T10:00:00Z"

	// 06:00Z = 09:00 по Москве
	v := check(t, cfg, "2025-01-08T06:00:00Z", 60, nil, now)
	assert.True(t, v.OK)

	// 05:30Z = 08:30 по Москве
	v = check(t, cfg, "2025-01-08T05:30:00Z", 60, nil, now)
	assert.Equal(t, availability.ReasonOutsideHours, v.Reason)

	// Пятница 21:30Z это уже суббота 00:30 по Москве
	v = check(t, cfg, "2025-01-10T21:30:00Z", 60, nil, now)
	assert.Equal(t, availability.ReasonNotWorkingDay, v.Reason)

	// Дата блокировки определяется по часовому поясу терапевта
	cfg.BlockedDates = []types.DateString{"2025-01-09"}
	v = check(t, cfg, "2025-01-08T22:00:00Z", 60, nil, now)
	assert.Equal(t, availability.ReasonDateBlocked, v.Reason)
}

func TestIsSlotBookable_DuplicateCustomEntriesLastWins(t *testing.T) {
	custom := hours("10:00", "14:00")
	now := "2025-01-01T10:00:00Z"

	cfg := baseConfig()
	cfg.CustomSchedule = []domain.CustomScheduleEntry{
		{Date: "2025-01-11", Available: true, CustomHours: &custom},
		{Date: "2025-01-11", Available: false},
	}
	v := check(t, cfg, "2025-01-11T10:00:00Z", 60, nil, now)
	assert.Equal(t, availability.ReasonDateBlocked, v.Reason)

	cfg.CustomSchedule = []domain.CustomScheduleEntry{
		{Date: "2025-01-11", Available: false},
		{Date: "2025-01-11", Available: true, CustomHours: &custom},
	}
	v = check(t, cfg, "2025-01-11T10:00:00Z", 60, nil, now)
	assert.True(t, v.OK)
}

func TestIsSlotBookable_IsPure(t *testing.T) {
	cfg := baseConfig()
	cfg.BufferMinutes = 10
	cfg.BlockedDates = []types.DateString{"2025-01-09"}
	bookings := []*domain.Booking{booking(t, "2025-01-08T10:00:00Z", 60, domain.StatusConfirmed)}
	snapshot := *cfg
	snapshot.BlockedDates = append([]types.DateString(nil), cfg.BlockedDates...)

	candidate := availability.Candidate{Start: at(t, "2025-01-08T11:00:00Z"), DurationMinutes: 30}
	now := at(t, "2025-01-01T10:00:00Z")

	first, err := availability.IsSlotBookable(cfg, candidate, bookings, now)
	require.NoError(t, err)
	second, err := availability.IsSlotBookable(cfg, candidate, bookings, now)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, availability.ReasonConflict, first.Reason)
	assert.Equal(t, &snapshot, cfg)
}

func TestIsSlotBookable_Errors(t *testing.T) {
	now := at(t, "2025-01-01T10:00:00Z")
	candidate := availability.Candidate{Start: at(t, "2025-01-08T10:00:00Z"), DurationMinutes: 60}

	t.Run("malformed working hours", func(t *testing.T) {
		cfg := baseConfig()
		cfg.WorkingHours = hours("17:00", "09:00")

		_, err := availability.IsSlotBookable(cfg, candidate, nil, now)
		require.Error(t, err)
		assert.True(t, errors.Is(err, availability.ErrInvalidConfig))

		var cfgErr *availability.ConfigError
		require.True(t, errors.As(err, &cfgErr))
		assert.Equal(t, "workingHours", cfgErr.Field)
	})

	t.Run("negative buffer", func(t *testing.T) {
		cfg := baseConfig()
		cfg.BufferMinutes = -5
		_, err := availability.IsSlotBookable(cfg, candidate, nil, now)
		assert.ErrorIs(t, err, availability.ErrInvalidConfig)
	})

	t.Run("nil config", func(t *testing.T) {
		_, err := availability.IsSlotBookable(nil, candidate, nil, now)
		assert.ErrorIs(t, err, availability.ErrInvalidConfig)
	})

	t.Run("non-positive duration", func(t *testing.T) {
		_, err := availability.IsSlotBookable(baseConfig(), availability.Candidate{Start: candidate.Start}, nil, now)
		assert.ErrorIs(t, err, availability.ErrInvalidCandidate)
	})
}
