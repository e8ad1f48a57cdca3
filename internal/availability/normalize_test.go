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

func messyConfig() domain.AvailabilityConfig {
	morning := hours("08:00", "12:00")
	evening := hours("15:00", "20:00")
	return domain.AvailabilityConfig{
		TherapistID:           therapistID,
		TimeZone:              "Europe/Berlin",
		WorkingDays:           []time.Weekday{time.Friday, time.Monday, time.Wednesday, time.Monday},
		WorkingHours:          hours("09:00", "18:00"),
		Breaks:                []domain.TimeRange{hours("15:00", "15:30"), hours("12:00", "13:00"), hours("12:00", "12:30")},
		BlockedDates:          []types.DateString{"2025-03-10", "2025-01-01", "2025-03-10"},
		BufferMinutes:         10,
		MaxAdvanceBookingDays: 90,
		MinAdvanceNoticeHours: 12,
		CustomSchedule: []domain.CustomScheduleEntry{
			{Date: "2025-02-14", Available: true, CustomHours: &morning},
			{Date: "2025-01-20", Available: false},
			{Date: "2025-02-14", Available: true, CustomHours: &evening},
			{Date: "2025-01-20", Available: true},
		},
	}
}

func TestNormalizeConfig_Canonicalizes(t *testing.T) {
	result, err := availability.NormalizeConfig(messyConfig())
	require.NoError(t, err)

	cfg := result.Config
	assert.Equal(t, []time.Weekday{time.Monday, time.Wednesday, time.Friday}, cfg.WorkingDays)
	assert.Equal(t, []types.DateString{"2025-01-01", "2025-03-10"}, cfg.BlockedDates)
	assert.Equal(t, []domain.TimeRange{
		hours("12:00", "12:30"), hours("12:00", "13:00"), hours("15:00", "15:30"),
	}, cfg.Breaks)

	// Последняя запись на дату побеждает
	require.Len(t, cfg.CustomSchedule, 2)
	assert.Equal(t, types.DateString("2025-01-20"), cfg.CustomSchedule[0].Date)
	assert.True(t, cfg.CustomSchedule[0].Available)
	assert.Equal(t, types.DateString("2025-02-14"), cfg.CustomSchedule[1].Date)
	require.NotNil(t, cfg.CustomSchedule[1].CustomHours)
	assert.Equal(t, hours("15:00", "20:00"), *cfg.CustomSchedule[1].CustomHours)

	assert.True(t, result.HasDuplicates())
	assert.Equal(t, []types.DateString{"2025-01-20", "2025-02-14"}, result.DuplicateDates)
}

func TestNormalizeConfig_Idempotent(t *testing.T) {
	inputs := map[string]domain.AvailabilityConfig{
		"messy":   messyConfig(),
		"base":    *baseConfig(),
		"minimal": {WorkingHours: hours("10:00", "11:00")},
		"default": *domain.DefaultAvailabilityConfig(therapistID, "UTC"),
	}

	for name, raw := range inputs {
		t.Run(name, func(t *testing.T) {
			once, err := availability.NormalizeConfig(raw)
			require.NoError(t, err)

			twice, err := availability.NormalizeConfig(*once.Config)
			require.NoError(t, err)

			assert.Equal(t, once.Config, twice.Config)
			assert.False(t, twice.HasDuplicates())
		})
	}
}

func TestNormalizeConfig_DoesNotMutateInput(t *testing.T) {
	raw := messyConfig()
	_, err := availability.NormalizeConfig(raw)
	require.NoError(t, err)

	assert.Equal(t, messyConfig(), raw)
}

func TestNormalizeConfig_PreservesBehaviour(t *testing.T) {
	raw := messyConfig()
	normalized, err := availability.NormalizeConfig(raw)
	require.NoError(t, err)

	now := at(t, "2025-01-01T00:00:00Z")
	for _, date := range []types.DateString{"2025-01-20", "2025-02-14", "2025-03-10", "2025-03-12"} {
		rawSeq, err := availability.EnumerateSlots(&raw, date, 45, 15, nil, now)
		require.NoError(t, err)
		normSeq, err := availability.EnumerateSlots(normalized.Config, date, 45, 15, nil, now)
		require.NoError(t, err)

		assert.Equal(t, availability.CollectSlots(rawSeq, 0), availability.CollectSlots(normSeq, 0), string(date))
	}
}

func TestNormalizeConfig_AcceptsAnyNonNegativeLimits(t *testing.T) {
	ignored := hours("10:00", "12:00")
	cfg := baseConfig()
	cfg.BufferMinutes = 300
	cfg.MaxAdvanceBookingDays = 400
	cfg.MinAdvanceNoticeHours = 200
	cfg.CustomSchedule = []domain.CustomScheduleEntry{
		{Date: "2025-01-08", Available: false, CustomHours: &ignored},
	}

	result, err := availability.NormalizeConfig(*cfg)
	require.NoError(t, err)
	assert.Equal(t, 300, result.Config.BufferMinutes)
	assert.Equal(t, 400, result.Config.MaxAdvanceBookingDays)
	assert.Equal(t, 200, result.Config.MinAdvanceNoticeHours)
	require.Len(t, result.Config.CustomSchedule, 1)
	assert.False(t, result.Config.CustomSchedule[0].Available)
}

func TestNormalizeConfig_Errors(t *testing.T) {
	invertedCustom := hours("12:00", "10:00")

	tests := []struct {
		name   string
		modify func(cfg *domain.AvailabilityConfig)
		field  string
	}{
		{
			name:   "working hours start after end",
			modify: func(cfg *domain.AvailabilityConfig) { cfg.WorkingHours = hours("18:00", "09:00") },
			field:  "workingHours",
		},
		{
			name:   "working hours start equals end",
			modify: func(cfg *domain.AvailabilityConfig) { cfg.WorkingHours = hours("09:00", "09:00") },
			field:  "workingHours",
		},
		{
			name:   "malformed time",
			modify: func(cfg *domain.AvailabilityConfig) { cfg.WorkingHours = hours("25:00", "26:00") },
			field:  "workingHours.start",
		},
		{
			name:   "missing time",
			modify: func(cfg *domain.AvailabilityConfig) { cfg.WorkingHours = domain.TimeRange{} },
			field:  "workingHours.start",
		},
		{
			name:   "break outside working hours",
			modify: func(cfg *domain.AvailabilityConfig) { cfg.Breaks = []domain.TimeRange{hours("16:30", "17:30")} },
			field:  "breaks[0]",
		},
		{
			name:   "inverted break",
			modify: func(cfg *domain.AvailabilityConfig) { cfg.Breaks = []domain.TimeRange{hours("13:00", "12:00")} },
			field:  "breaks[0]",
		},
		{
			name:   "weekday out of range",
			modify: func(cfg *domain.AvailabilityConfig) { cfg.WorkingDays = []time.Weekday{time.Monday, 7} },
			field:  "workingDays[1]",
		},
		{
			name:   "negative buffer",
			modify: func(cfg *domain.AvailabilityConfig) { cfg.BufferMinutes = -1 },
			field:  "bufferTime",
		},
		{
			name:   "negative max advance",
			modify: func(cfg *domain.AvailabilityConfig) { cfg.MaxAdvanceBookingDays = -1 },
			field:  "maxAdvanceBooking",
		},
		{
			name:   "negative notice",
			modify: func(cfg *domain.AvailabilityConfig) { cfg.MinAdvanceNoticeHours = -1 },
			field:  "minAdvanceNotice",
		},
		{
			name:   "malformed blocked date",
			modify: func(cfg *domain.AvailabilityConfig) { cfg.BlockedDates = []types.DateString{"2025-02-30"} },
			field:  "blockedDates[0]",
		},
		{
			name: "malformed custom date",
			modify: func(cfg *domain.AvailabilityConfig) {
				cfg.CustomSchedule = []domain.CustomScheduleEntry{{Date: "tomorrow", Available: false}}
			},
			field: "customSchedule[0].date",
		},
		{
			name: "inverted custom hours",
			modify: func(cfg *domain.AvailabilityConfig) {
				cfg.CustomSchedule = []domain.CustomScheduleEntry{
					{Date: "2025-01-10", Available: true},
					{Date: "2025-01-11", Available: true, CustomHours: &invertedCustom},
				}
			},
			field: "customSchedule[1].customHours",
		},
		{
			name:   "unknown time zone",
			modify: func(cfg *domain.AvailabilityConfig) { cfg.TimeZone = "Mars/Olympus_Mons" },
			field:  "timeZone",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig()
			tt.modify(cfg)

			_, err := availability.NormalizeConfig(*cfg)
			require.Error(t, err)
			assert.ErrorIs(t, err, availability.ErrInvalidConfig)

			var cfgErr *availability.ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.field, cfgErr.Field)
			assert.NotEmpty(t, cfgErr.Reason)
		})
	}
}
