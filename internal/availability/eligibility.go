package availability

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-TherapyBookingService/internal/domain"
)

// IsSlotBookable проверяет, можно ли забронировать слот
//
// Проверки выполняются по порядку, первая сработавшая определяет причину:
// 1. TOO_SOON - начало раньше now + minAdvanceNotice часов
// 2. TOO_FAR - начало позже now + maxAdvanceBooking дней
// 3. DATE_BLOCKED - дата в blockedDates или в customSchedule с available=false
// 4. NOT_WORKING_DAY - нет ни customHours, ни рабочего дня недели
// 5. OUTSIDE_HOURS - слот не помещается целиком в рабочее окно
// 6. DURING_BREAK - слот пересекается с перерывом
// 7. CONFLICT - слот пересекается с бронированием, расширенным на bufferTime
//
// Календарные правила вычисляются в часовом поясе терапевта.
// Функция чистая: текущее время передаётся явно через now.
func IsSlotBookable(cfg *domain.AvailabilityConfig, c Candidate, bookings []*domain.Booking, now time.Time) (Verdict, error) {
	if c.DurationMinutes <= 0 {
		return Verdict{}, fmt.Errorf("%w: duration must be positive, got %d", ErrInvalidCandidate, c.DurationMinutes)
	}

	s, err := compile(cfg)
	if err != nil {
		return Verdict{}, err
	}

	day, err := s.resolveDay(s.dateOf(c.Start))
	if err != nil {
		return Verdict{}, fmt.Errorf("%w: %v", ErrInvalidCandidate, err)
	}

	return s.check(c, day, s.occupied(bookings), now), nil
}

// check выполняет все проверки для слота на уже вычисленном дне
func (s *schedule) check(c Candidate, day dayPlan, busy []interval, now time.Time) Verdict {
	slot := interval{start: c.Start, end: c.End()}

	// 1. Минимальное время до бронирования
	if slot.start.Before(now.Add(s.notice)) {
		return rejected(ReasonTooSoon)
	}

	// 2. Максимальный горизонт бронирования (календарные дни в поясе терапевта)
	// При 0 дней доступно только уже наступившее время, то есть ничего
	if slot.start.After(now.In(s.loc).AddDate(0, 0, s.maxAdvance)) {
		return rejected(ReasonTooFar)
	}

	// 3-4. Статус дня
	switch day.status {
	case dayBlocked:
		return rejected(ReasonDateBlocked)
	case dayOff:
		return rejected(ReasonNotWorkingDay)
	}

	// 5. Слот целиком внутри рабочего окна, граница окна включается
	if slot.start.Before(day.open) || slot.end.After(day.close) {
		return rejected(ReasonOutsideHours)
	}

	// 6. Перерывы
	for _, br := range day.breaks {
		if slot.overlaps(br) {
			return rejected(ReasonDuringBreak)
		}
	}

	// 7. Существующие бронирования с буфером
	for _, b := range busy {
		if !b.start.Before(slot.end) {
			// Отсортированы по началу, дальше пересечений нет
			break
		}
		if slot.overlaps(b) {
			return rejected(ReasonConflict)
		}
	}

	return accepted()
}
