package availability

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig возвращается, когда конфигурация доступности некорректна
	// Конкретная причина передаётся через *ConfigError
	ErrInvalidConfig = errors.New("availability: invalid config")

	// ErrInvalidCandidate возвращается при некорректной длительности или шаге слота
	ErrInvalidCandidate = errors.New("availability: invalid candidate")
)

// ConfigError описывает первое нарушенное правило конфигурации
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidConfig, e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

func configErrorf(field, format string, v ...interface{}) *ConfigError {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, v...)}
}
