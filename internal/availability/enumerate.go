package availability

import (
	"fmt"
	"iter"
	"time"

	"github.com/m04kA/SMC-TherapyBookingService/internal/domain"
	"github.com/m04kA/SMC-TherapyBookingService/pkg/types"
)

// EnumerateSlots возвращает все доступные слоты на дату
//
// Кандидаты генерируются от начала рабочего окна с шагом stepMinutes, пока слот
// помещается в окно (слот, заканчивающийся ровно в конце окна, включается).
// В результат попадают только кандидаты, для которых IsSlotBookable вернул бы ok.
//
// Последовательность ленивая, конечная и упорядочена по возрастанию начала.
// Её можно обходить повторно: каждый обход вычисляет слоты заново по тем же данным.
// Ошибки конфигурации и параметров возвращаются сразу, до начала обхода.
func EnumerateSlots(
	cfg *domain.AvailabilityConfig,
	date types.DateString,
	durationMinutes int,
	stepMinutes int,
	bookings []*domain.Booking,
	now time.Time,
) (iter.Seq[domain.Slot], error) {
	if err := validateSlotParams(durationMinutes, stepMinutes); err != nil {
		return nil, err
	}
	if err := date.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCandidate, err)
	}

	s, err := compile(cfg)
	if err != nil {
		return nil, err
	}

	return s.daySlots(date, durationMinutes, stepMinutes, s.occupied(bookings), now), nil
}

// EnumerateRange возвращает доступные слоты на каждую дату из [from, to] включительно
// Слоты упорядочены по возрастанию начала
func EnumerateRange(
	cfg *domain.AvailabilityConfig,
	from types.DateString,
	to types.DateString,
	durationMinutes int,
	stepMinutes int,
	bookings []*domain.Booking,
	now time.Time,
) (iter.Seq[domain.Slot], error) {
	if err := validateSlotParams(durationMinutes, stepMinutes); err != nil {
		return nil, err
	}
	if err := from.Validate(); err != nil {
		return nil, fmt.Errorf("%w: from: %v", ErrInvalidCandidate, err)
	}
	if err := to.Validate(); err != nil {
		return nil, fmt.Errorf("%w: to: %v", ErrInvalidCandidate, err)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: range end %s is before start %s", ErrInvalidCandidate, to, from)
	}

	s, err := compile(cfg)
	if err != nil {
		return nil, err
	}
	busy := s.occupied(bookings)

	return func(yield func(domain.Slot) bool) {
		for date := from; !date.After(to); {
			for slot := range s.daySlots(date, durationMinutes, stepMinutes, busy, now) {
				if !yield(slot) {
					return
				}
			}

			next, err := date.AddDays(1)
			if err != nil {
				return
			}
			date = next
		}
	}, nil
}

// CollectSlots собирает последовательность в слайс
// limit <= 0 означает без ограничения
func CollectSlots(seq iter.Seq[domain.Slot], limit int) []domain.Slot {
	slots := make([]domain.Slot, 0)
	if seq == nil {
		return slots
	}
	for slot := range seq {
		slots = append(slots, slot)
		if limit > 0 && len(slots) >= limit {
			break
		}
	}
	return slots
}

// daySlots генерирует доступные слоты одного дня
func (s *schedule) daySlots(date types.DateString, durationMinutes, stepMinutes int, busy []interval, now time.Time) iter.Seq[domain.Slot] {
	length := time.Duration(durationMinutes) * time.Minute
	step := time.Duration(stepMinutes) * time.Minute

	return func(yield func(domain.Slot) bool) {
		day, err := s.resolveDay(date)
		if err != nil || day.status != dayOpen {
			return
		}

		for start := day.open; !start.Add(length).After(day.close); start = start.Add(step) {
			c := Candidate{Start: start, DurationMinutes: durationMinutes}
			if !s.check(c, day, busy, now).OK {
				continue
			}
			if !yield(domain.Slot{TherapistID: s.therapistID, Start: start, End: c.End()}) {
				return
			}
		}
	}
}
