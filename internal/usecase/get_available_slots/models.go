package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-TherapyBookingService/pkg/types"
)

// Options параметры use case из конфигурации приложения
type Options struct {
	DefaultStepMinutes int // шаг сетки слотов, если не указан в запросе
	MaxRangeDays       int // максимальная длина периода в днях
}

// Request модель запроса на получение доступных слотов
type Request struct {
	TherapistID int64            // ID терапевта
	ServiceID   int64            // ID услуги (определяет длительность)
	From        types.DateString // Первая дата периода
	To          types.DateString // Последняя дата периода (включительно), пустая = From
	StepMinutes int              // Шаг сетки, 0 = по умолчанию
}

// Response модель ответа со списком доступных слотов
type Response struct {
	TherapistID     int64
	ServiceID       int64
	TimeZone        string // часовой пояс терапевта, в нём заданы даты и время слотов
	DurationMinutes int
	StepMinutes     int
	Days            []Day
}

// Day доступные слоты одной даты
type Day struct {
	Date  types.DateString
	Slots []Slot
}

// Slot модель временного слота
type Slot struct {
	StartAt   time.Time        // Начало (в часовом поясе терапевта)
	EndAt     time.Time        // Конец
	StartTime types.TimeString // Начало по часам терапевта, например "10:00"
}
