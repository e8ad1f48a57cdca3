package availability

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-TherapyBookingService/internal/domain"
	"github.com/m04kA/SMC-TherapyBookingService/pkg/types"
)

// NormalizeConfig проверяет конфигурацию и приводит её к каноническому виду
//
// - workingDays и blockedDates без повторов, по возрастанию
// - breaks по возрастанию начала (пересечения сохраняются, движок их объединяет)
// - customSchedule по одной записи на дату, побеждает последняя; по возрастанию даты
// - пустые списки вместо nil
//
// Даты с повторами возвращаются в Normalized.DuplicateDates для аудита.
// Исходная конфигурация не изменяется. NormalizeConfig идемпотентна:
// повторная нормализация результата возвращает ту же конфигурацию без дубликатов.
func NormalizeConfig(raw domain.AvailabilityConfig) (Normalized, error) {
	if _, err := validateConfig(&raw); err != nil {
		return Normalized{}, err
	}

	cfg := raw
	cfg.WorkingDays = normalizeWeekdays(raw.WorkingDays)
	cfg.Breaks = normalizeBreaks(raw.Breaks)
	cfg.BlockedDates = normalizeDates(raw.BlockedDates)

	custom, duplicates := dedupeCustomSchedule(raw.CustomSchedule)
	cfg.CustomSchedule = custom

	return Normalized{
		Config:         &cfg,
		DuplicateDates: duplicates,
	}, nil
}

func normalizeWeekdays(days []time.Weekday) []time.Weekday {
	var seen [7]bool
	for _, d := range days {
		seen[d] = true
	}
	result := make([]time.Weekday, 0, len(days))
	for d := time.Sunday; d <= time.Saturday; d++ {
		if seen[d] {
			result = append(result, d)
		}
	}
	return result
}

func normalizeBreaks(breaks []domain.TimeRange) []domain.TimeRange {
	result := make([]domain.TimeRange, len(breaks))
	copy(result, breaks)
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Start != result[j].Start {
			return result[i].Start.IsBefore(result[j].Start)
		}
		return result[i].End.IsBefore(result[j].End)
	})
	return result
}

func normalizeDates(dates []types.DateString) []types.DateString {
	seen := make(map[types.DateString]struct{}, len(dates))
	result := make([]types.DateString, 0, len(dates))
	for _, d := range dates {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		result = append(result, d)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Before(result[j])
	})
	return result
}

// dedupeCustomSchedule оставляет последнюю запись на каждую дату
func dedupeCustomSchedule(entries []domain.CustomScheduleEntry) ([]domain.CustomScheduleEntry, []types.DateString) {
	latest := make(map[types.DateString]domain.CustomScheduleEntry, len(entries))
	counts := make(map[types.DateString]int, len(entries))
	for _, entry := range entries {
		if entry.CustomHours != nil {
			hours := *entry.CustomHours
			entry.CustomHours = &hours
		}
		latest[entry.Date] = entry
		counts[entry.Date]++
	}

	result := make([]domain.CustomScheduleEntry, 0, len(latest))
	for _, entry := range latest {
		result = append(result, entry)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})

	duplicates := make([]types.DateString, 0)
	for date, n := range counts {
		if n > 1 {
			duplicates = append(duplicates, date)
		}
	}
	sort.Slice(duplicates, func(i, j int) bool {
		return duplicates[i].Before(duplicates[j])
	})

	return result, duplicates
}
