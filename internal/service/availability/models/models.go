package models

import (
	"time"

	"github.com/m04kA/SMC-TherapyBookingService/internal/domain"
	"github.com/m04kA/SMC-TherapyBookingService/pkg/types"
)

// Request модели

// TimeRange интервал времени в формате HH:MM
type TimeRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// CustomScheduleEntry переопределение расписания на дату
type CustomScheduleEntry struct {
	Date        string     `json:"date"`
	Available   bool       `json:"available"`
	CustomHours *TimeRange `json:"customHours,omitempty"`
}

// AvailabilityBody тело конфигурации доступности
// Конфигурация сохраняется только целиком
type AvailabilityBody struct {
	TimeZone          string                `json:"timeZone"`
	WorkingDays       []int                 `json:"workingDays"` // 0 = воскресенье ... 6 = суббота
	WorkingHours      TimeRange             `json:"workingHours"`
	Breaks            []TimeRange           `json:"breaks"`
	BlockedDates      []string              `json:"blockedDates"`
	CustomSchedule    []CustomScheduleEntry `json:"customSchedule"`
	BufferTime        int                   `json:"bufferTime"`        // минуты
	MaxAdvanceBooking int                   `json:"maxAdvanceBooking"` // дни, 0 = бронировать нельзя
	MinAdvanceNotice  int                   `json:"minAdvanceNotice"`  // часы
}

// SaveAvailabilityRequest запрос на сохранение конфигурации терапевта
type SaveAvailabilityRequest struct {
	Actor       domain.Actor
	TherapistID int64
	Body        AvailabilityBody
}

// CreateDefaultRequest запрос на создание конфигурации по умолчанию
type CreateDefaultRequest struct {
	Actor       domain.Actor
	TherapistID int64
}

// ToDomain конвертирует тело запроса в domain модель без валидации
func (b *AvailabilityBody) ToDomain(therapistID int64) domain.AvailabilityConfig {
	cfg := domain.AvailabilityConfig{
		TherapistID:           therapistID,
		TimeZone:              b.TimeZone,
		WorkingDays:           make([]time.Weekday, 0, len(b.WorkingDays)),
		WorkingHours:          toDomainRange(b.WorkingHours),
		Breaks:                make([]domain.TimeRange, 0, len(b.Breaks)),
		BlockedDates:          make([]types.DateString, 0, len(b.BlockedDates)),
		CustomSchedule:        make([]domain.CustomScheduleEntry, 0, len(b.CustomSchedule)),
		BufferMinutes:         b.BufferTime,
		MaxAdvanceBookingDays: b.MaxAdvanceBooking,
		MinAdvanceNoticeHours: b.MinAdvanceNotice,
	}

	for _, d := range b.WorkingDays {
		cfg.WorkingDays = append(cfg.WorkingDays, time.Weekday(d))
	}
	for _, br := range b.Breaks {
		cfg.Breaks = append(cfg.Breaks, toDomainRange(br))
	}
	for _, d := range b.BlockedDates {
		cfg.BlockedDates = append(cfg.BlockedDates, types.DateString(d))
	}
	for _, e := range b.CustomSchedule {
		entry := domain.CustomScheduleEntry{
			Date:      types.DateString(e.Date),
			Available: e.Available,
		}
		if e.CustomHours != nil {
			hours := toDomainRange(*e.CustomHours)
			entry.CustomHours = &hours
		}
		cfg.CustomSchedule = append(cfg.CustomSchedule, entry)
	}

	return cfg
}

func toDomainRange(r TimeRange) domain.TimeRange {
	return domain.TimeRange{Start: types.TimeString(r.Start), End: types.TimeString(r.End)}
}

// Response модели

// AvailabilityResponse ответ с конфигурацией доступности
type AvailabilityResponse struct {
	TherapistID int64 `json:"therapistId"`
	AvailabilityBody
	IsDefault      bool      `json:"isDefault"`
	DuplicateDates []string  `json:"duplicateDates,omitempty"` // даты customSchedule, перезаписанные последней записью
	UpdatedAt      time.Time `json:"updatedAt,omitempty"`
}

// FromDomain конвертирует domain модель в DTO
func FromDomain(c *domain.AvailabilityConfig) *AvailabilityResponse {
	if c == nil {
		return nil
	}

	resp := &AvailabilityResponse{
		TherapistID: c.TherapistID,
		AvailabilityBody: AvailabilityBody{
			TimeZone:          c.TimeZone,
			WorkingDays:       make([]int, 0, len(c.WorkingDays)),
			WorkingHours:      fromDomainRange(c.WorkingHours),
			Breaks:            make([]TimeRange, 0, len(c.Breaks)),
			BlockedDates:      make([]string, 0, len(c.BlockedDates)),
			CustomSchedule:    make([]CustomScheduleEntry, 0, len(c.CustomSchedule)),
			BufferTime:        c.BufferMinutes,
			MaxAdvanceBooking: c.MaxAdvanceBookingDays,
			MinAdvanceNotice:  c.MinAdvanceNoticeHours,
		},
		UpdatedAt: c.UpdatedAt,
	}

	for _, d := range c.WorkingDays {
		resp.WorkingDays = append(resp.WorkingDays, int(d))
	}
	for _, br := range c.Breaks {
		resp.Breaks = append(resp.Breaks, fromDomainRange(br))
	}
	for _, d := range c.BlockedDates {
		resp.BlockedDates = append(resp.BlockedDates, d.String())
	}
	for _, e := range c.CustomSchedule {
		entry := CustomScheduleEntry{Date: e.Date.String(), Available: e.Available}
		if e.CustomHours != nil {
			hours := fromDomainRange(*e.CustomHours)
			entry.CustomHours = &hours
		}
		resp.CustomSchedule = append(resp.CustomSchedule, entry)
	}

	return resp
}

func fromDomainRange(r domain.TimeRange) TimeRange {
	return TimeRange{Start: r.Start.String(), End: r.End.String()}
}
