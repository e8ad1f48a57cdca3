package domain

import "time"

// Slot represents a bookable interval for one therapist
// Computed on demand, never persisted
type Slot struct {
	TherapistID int64
	Start       time.Time
	End         time.Time
}

// DurationMinutes returns the slot length in minutes
func (s Slot) DurationMinutes() int {
	return int(s.End.Sub(s.Start) / time.Minute)
}
