package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// ErrInvalidDateString возвращается при некорректном формате даты (ожидается YYYY-MM-DD)
var ErrInvalidDateString = errors.New("invalid date string format")

// DateString календарная дата без времени и зоны в формате YYYY-MM-DD
type DateString string

// NewDateString возвращает календарную дату момента t в его собственной локации
func NewDateString(t time.Time) DateString {
	return DateString(t.Format(dateLayout))
}

// NewDateStringFromString парсит строку YYYY-MM-DD с валидацией
func NewDateStringFromString(s string) (DateString, error) {
	d := DateString(s)
	if err := d.Validate(); err != nil {
		return "", err
	}
	return d, nil
}

// Validate проверяет формат YYYY-MM-DD
func (d DateString) Validate() error {
	if _, err := time.Parse(dateLayout, string(d)); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDateString, string(d))
	}
	return nil
}

// IsZero возвращает true, если дата не задана
func (d DateString) IsZero() bool {
	return d == ""
}

func (d DateString) String() string {
	return string(d)
}

// Time возвращает полночь этой даты в указанной локации
func (d DateString) Time(loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, string(d), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateString, string(d))
	}
	return t, nil
}

// Weekday возвращает день недели даты
func (d DateString) Weekday() (time.Weekday, error) {
	t, err := d.Time(time.UTC)
	if err != nil {
		return time.Sunday, err
	}
	return t.Weekday(), nil
}

// AddDays сдвигает дату на n календарных дней
func (d DateString) AddDays(n int) (DateString, error) {
	t, err := d.Time(time.UTC)
	if err != nil {
		return "", err
	}
	return NewDateString(t.AddDate(0, 0, n)), nil
}

// Before возвращает true, если d строго раньше other (формат фиксированной ширины сравнивается как строка)
func (d DateString) Before(other DateString) bool {
	return d < other
}

// After возвращает true, если d строго позже other
func (d DateString) After(other DateString) bool {
	return d > other
}

// Scan реализует sql.Scanner (колонки DATE приходят как time.Time)
func (d *DateString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*d = ""
		return nil
	case time.Time:
		*d = NewDateString(v)
		return nil
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	default:
		return fmt.Errorf("%w: unsupported type %T", ErrInvalidDateString, src)
	}
}

func (d *DateString) scanString(raw string) error {
	if len(raw) > len(dateLayout) {
		raw = raw[:len(dateLayout)]
	}
	parsed, err := NewDateStringFromString(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value реализует driver.Valuer
func (d DateString) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return string(d), nil
}
