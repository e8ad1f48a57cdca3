package availability

import (
	"time"

	"github.com/m04kA/SMC-TherapyBookingService/internal/domain"
	"github.com/m04kA/SMC-TherapyBookingService/pkg/types"
)

// ReasonCode причина, по которой слот нельзя забронировать
type ReasonCode string

// Проверки выполняются строго в этом порядке, первая сработавшая определяет причину
const (
	ReasonTooSoon       ReasonCode = "TOO_SOON"
	ReasonTooFar        ReasonCode = "TOO_FAR"
	ReasonDateBlocked   ReasonCode = "DATE_BLOCKED"
	ReasonNotWorkingDay ReasonCode = "NOT_WORKING_DAY"
	ReasonOutsideHours  ReasonCode = "OUTSIDE_HOURS"
	ReasonDuringBreak   ReasonCode = "DURING_BREAK"
	ReasonConflict      ReasonCode = "CONFLICT"
)

func (r ReasonCode) String() string {
	return string(r)
}

// Candidate проверяемый слот: начало и длительность услуги
type Candidate struct {
	Start           time.Time
	DurationMinutes int
}

// End возвращает момент окончания слота
func (c Candidate) End() time.Time {
	return c.Start.Add(time.Duration(c.DurationMinutes) * time.Minute)
}

// Verdict результат проверки слота
// Недоступность слота это нормальный результат, а не ошибка
type Verdict struct {
	OK     bool
	Reason ReasonCode
}

func accepted() Verdict {
	return Verdict{OK: true}
}

func rejected(reason ReasonCode) Verdict {
	return Verdict{OK: false, Reason: reason}
}

// Normalized результат нормализации конфигурации
type Normalized struct {
	Config *domain.AvailabilityConfig
	// DuplicateDates даты, для которых в customSchedule было несколько записей
	// Оставлена последняя запись, дубликаты нужно залогировать для аудита
	DuplicateDates []types.DateString
}

// HasDuplicates возвращает true, если при нормализации были отброшены записи
func (n Normalized) HasDuplicates() bool {
	return len(n.DuplicateDates) > 0
}
