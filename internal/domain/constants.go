package domain

import "github.com/m04kA/SMC-TherapyBookingService/pkg/types"

// Default configuration values
const (
	DefaultWorkingHoursStart     types.TimeString = "09:00"
	DefaultWorkingHoursEnd       types.TimeString = "17:00"
	DefaultBufferMinutes                          = 0
	DefaultMaxAdvanceBookingDays                  = 60
	DefaultMinAdvanceNoticeHours                  = 24
	DefaultSlotStepMinutes                        = 30
)

// Business validation constants
const (
	MaxBufferMinutes            = 240 // 4 hours
	MaxAdvanceBookingDays       = 365 // 1 year
	MaxAdvanceNoticeHours       = 168 // 1 week
	MinSessionDurationMinutes   = 5
	MaxSessionDurationMinutes   = 480 // 8 hours
	MaxSlotRangeDays            = 14
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
)

// InactiveStatuses список статусов, которые не занимают время в календаре
var InactiveStatuses = []BookingStatus{
	StatusCancelled,
}
