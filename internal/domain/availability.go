package domain

import (
	"time"

	"github.com/m04kA/SMC-TherapyBookingService/pkg/types"
)

// TimeRange represents a wall-clock interval within one day, e.g. 09:00-17:00
type TimeRange struct {
	Start types.TimeString `json:"start"`
	End   types.TimeString `json:"end"`
}

// CustomScheduleEntry overrides availability for a single calendar date
type CustomScheduleEntry struct {
	Date        types.DateString `json:"date"`
	Available   bool             `json:"available"`
	CustomHours *TimeRange       `json:"customHours,omitempty"`
}

// AvailabilityConfig represents a therapist's availability rules
// One per therapist. Saved only as a whole, never partially.
type AvailabilityConfig struct {
	TherapistID           int64                 `json:"therapistId"`
	TimeZone              string                `json:"timeZone"` // IANA name, e.g. "Europe/Moscow"
	WorkingDays           []time.Weekday        `json:"workingDays"`
	WorkingHours          TimeRange             `json:"workingHours"`
	Breaks                []TimeRange           `json:"breaks"`
	BlockedDates          []types.DateString    `json:"blockedDates"`
	CustomSchedule        []CustomScheduleEntry `json:"customSchedule"`
	BufferMinutes         int                   `json:"bufferTime"`
	MaxAdvanceBookingDays int                   `json:"maxAdvanceBooking"` // 0 = no future slot is bookable
	MinAdvanceNoticeHours int                   `json:"minAdvanceNotice"`
	CreatedAt             time.Time             `json:"createdAt,omitempty"`
	UpdatedAt             time.Time             `json:"updatedAt,omitempty"`
}

// Location resolves the therapist's time zone; empty means UTC
func (c *AvailabilityConfig) Location() (*time.Location, error) {
	if c.TimeZone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.TimeZone)
}

// DefaultAvailabilityConfig returns the onboarding defaults for a new therapist
func DefaultAvailabilityConfig(therapistID int64, timeZone string) *AvailabilityConfig {
	return &AvailabilityConfig{
		TherapistID: therapistID,
		TimeZone:    timeZone,
		WorkingDays: []time.Weekday{
			time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
		},
		WorkingHours: TimeRange{
			Start: DefaultWorkingHoursStart,
			End:   DefaultWorkingHoursEnd,
		},
		Breaks:                []TimeRange{},
		BlockedDates:          []types.DateString{},
		CustomSchedule:        []CustomScheduleEntry{},
		BufferMinutes:         DefaultBufferMinutes,
		MaxAdvanceBookingDays: DefaultMaxAdvanceBookingDays,
		MinAdvanceNoticeHours: DefaultMinAdvanceNoticeHours,
	}
}
