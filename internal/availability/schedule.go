package availability

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-TherapyBookingService/internal/domain"
	"github.com/m04kA/SMC-TherapyBookingService/pkg/types"
)

// interval полуинтервал [start, end) на временной оси
type interval struct {
	start time.Time
	end   time.Time
}

// overlaps проверяет РЕАЛЬНОЕ пересечение интервалов
// Граничащие интервалы (конец одного равен началу другого) НЕ пересекаются
//
// Примеры:
// - Слот 11:30-12:00, перерыв 11:20-11:40 → ЕСТЬ пересечение
// - Слот 11:30-12:00, перерыв 11:00-11:30 → НЕТ пересечения (граничат)
// - Слот 11:30-12:00, бронирование 12:00-12:30 → НЕТ пересечения (граничат)
func (i interval) overlaps(other interval) bool {
	return i.start.Before(other.end) && other.start.Before(i.end)
}

// minuteRange интервал в минутах от начала суток
type minuteRange struct {
	start int
	end   int
}

type dayStatus int

const (
	dayOff dayStatus = iota
	dayBlocked
	dayOpen
)

// dayPlan рабочее окно терапевта на конкретную дату
type dayPlan struct {
	date   types.DateString
	status dayStatus
	open   time.Time
	close  time.Time
	breaks []interval
}

// schedule провалидированная и подготовленная к вычислениям конфигурация
type schedule struct {
	therapistID  int64
	loc          *time.Location
	workingDays  [7]bool
	workingHours minuteRange
	breaks       []minuteRange // отсортированы и объединены
	blocked      map[types.DateString]struct{}
	custom       map[types.DateString]domain.CustomScheduleEntry
	buffer       time.Duration
	notice       time.Duration
	maxAdvance   int
}

// compile валидирует конфигурацию и готовит её к проверкам
// Дубликаты customSchedule разрешаются по правилу "последняя запись побеждает"
func compile(cfg *domain.AvailabilityConfig) (*schedule, error) {
	loc, err := validateConfig(cfg)
	if err != nil {
		return nil, err
	}

	s := &schedule{
		therapistID: cfg.TherapistID,
		loc:         loc,
		blocked:     make(map[types.DateString]struct{}, len(cfg.BlockedDates)),
		custom:      make(map[types.DateString]domain.CustomScheduleEntry, len(cfg.CustomSchedule)),
		buffer:      time.Duration(cfg.BufferMinutes) * time.Minute,
		notice:      time.Duration(cfg.MinAdvanceNoticeHours) * time.Hour,
		maxAdvance:  cfg.MaxAdvanceBookingDays,
	}

	for _, d := range cfg.WorkingDays {
		s.workingDays[d] = true
	}

	// Ошибки здесь невозможны, формат уже проверен в validateConfig
	s.workingHours, _ = toMinuteRange(cfg.WorkingHours)

	breaks := make([]minuteRange, 0, len(cfg.Breaks))
	for _, b := range cfg.Breaks {
		r, _ := toMinuteRange(b)
		breaks = append(breaks, r)
	}
	s.breaks = mergeRanges(breaks)

	for _, d := range cfg.BlockedDates {
		s.blocked[d] = struct{}{}
	}
	for _, entry := range cfg.CustomSchedule {
		s.custom[entry.Date] = entry
	}

	return s, nil
}

// resolveDay вычисляет рабочее окно на дату
// Приоритет:
// 1. blockedDates или customSchedule с available=false → день заблокирован
// 2. customSchedule с customHours → часы из записи
// 3. день недели в workingDays → workingHours
// 4. иначе выходной
func (s *schedule) resolveDay(date types.DateString) (dayPlan, error) {
	plan := dayPlan{date: date}

	entry, hasEntry := s.custom[date]
	if _, blocked := s.blocked[date]; blocked || (hasEntry && !entry.Available) {
		plan.status = dayBlocked
		return plan, nil
	}

	midnight, err := date.Time(s.loc)
	if err != nil {
		return plan, err
	}

	var window minuteRange
	switch {
	case hasEntry && entry.CustomHours != nil:
		window, err = toMinuteRange(*entry.CustomHours)
		if err != nil {
			return plan, err
		}
	case s.workingDays[midnight.Weekday()]:
		window = s.workingHours
	default:
		plan.status = dayOff
		return plan, nil
	}

	plan.status = dayOpen
	plan.open = atMinute(midnight, window.start, s.loc)
	plan.close = atMinute(midnight, window.end, s.loc)
	plan.breaks = make([]interval, 0, len(s.breaks))
	for _, b := range s.breaks {
		plan.breaks = append(plan.breaks, interval{
			start: atMinute(midnight, b.start, s.loc),
			end:   atMinute(midnight, b.end, s.loc),
		})
	}

	return plan, nil
}

// dateOf возвращает календарную дату момента в часовом поясе терапевта
func (s *schedule) dateOf(t time.Time) types.DateString {
	return types.NewDateString(t.In(s.loc))
}

// occupied возвращает занятые интервалы терапевта, расширенные на bufferTime с обеих сторон
// Отменённые бронирования и бронирования других терапевтов не учитываются
func (s *schedule) occupied(bookings []*domain.Booking) []interval {
	busy := make([]interval, 0, len(bookings))
	for _, b := range bookings {
		if b == nil || b.TherapistID != s.therapistID || !b.OccupiesCalendar() {
			continue
		}
		busy = append(busy, interval{
			start: b.StartAt.Add(-s.buffer),
			end:   b.EndAt().Add(s.buffer),
		})
	}
	sort.Slice(busy, func(i, j int) bool {
		return busy[i].start.Before(busy[j].start)
	})
	return busy
}

func toMinuteRange(r domain.TimeRange) (minuteRange, error) {
	start, err := r.Start.Minutes()
	if err != nil {
		return minuteRange{}, err
	}
	end, err := r.End.Minutes()
	if err != nil {
		return minuteRange{}, err
	}
	return minuteRange{start: start, end: end}, nil
}

// mergeRanges объединяет пересекающиеся и граничащие интервалы
func mergeRanges(ranges []minuteRange) []minuteRange {
	if len(ranges) == 0 {
		return []minuteRange{}
	}

	sorted := make([]minuteRange, len(ranges))
	copy(sorted, ranges)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].start != sorted[j].start {
			return sorted[i].start < sorted[j].start
		}
		return sorted[i].end < sorted[j].end
	})

	merged := []minuteRange{sorted[0]}
	for _, r := range sorted[1:] {
		last := &merged[len(merged)-1]
		if r.start <= last.end {
			if r.end > last.end {
				last.end = r.end
			}
			continue
		}
		merged = append(merged, r)
	}
	return merged
}

// atMinute возвращает момент minute минут от полуночи по настенным часам
// При переходе на летнее время несуществующее время сдвигается вперёд (поведение time.Date)
func atMinute(midnight time.Time, minute int, loc *time.Location) time.Time {
	y, m, d := midnight.Date()
	return time.Date(y, m, d, minute/60, minute%60, 0, 0, loc)
}
