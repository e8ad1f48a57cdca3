package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/m04kA/SMC-TherapyBookingService/internal/domain"
)

var errFileRequired = errors.New("--file is required")

// scheduleFile формат входного файла
//
//	{"config": {...}, "bookings": [{"therapistId": 1, "startAt": "...", "durationMinutes": 50}]}
type scheduleFile struct {
	Config   domain.AvailabilityConfig `json:"config"`
	Bookings []fileBooking             `json:"bookings"`
}

type fileBooking struct {
	TherapistID     int64                `json:"therapistId"`
	StartAt         time.Time            `json:"startAt"`
	DurationMinutes int                  `json:"durationMinutes"`
	Status          domain.BookingStatus `json:"status"`
}

func (f scheduleFile) domainBookings() []*domain.Booking {
	bookings := make([]*domain.Booking, 0, len(f.Bookings))
	for _, b := range f.Bookings {
		therapistID := b.TherapistID
		if therapistID == 0 {
			therapistID = f.Config.TherapistID
		}
		status := b.Status
		if status == "" {
			status = domain.StatusConfirmed
		}
		bookings = append(bookings, &domain.Booking{
			TherapistID:     therapistID,
			StartAt:         b.StartAt,
			DurationMinutes: b.DurationMinutes,
			Status:          status,
		})
	}
	return bookings
}

// readScheduleFile читает файл расписания; "-" означает stdin
func readScheduleFile(path string, stdin io.Reader) (*scheduleFile, error) {
	if path == "" {
		return nil, errFileRequired
	}

	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}

	var sf scheduleFile
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&sf); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &sf, nil
}

// parseNow разбирает --now, пустое значение означает текущий момент
func parseNow(value string) (time.Time, error) {
	if value == "" {
		return time.Now(), nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("--now must be RFC3339: %w", err)
	}
	return t, nil
}
