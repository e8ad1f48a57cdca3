package availability

import (
	"context"

	"github.com/m04kA/SMC-TherapyBookingService/internal/domain"
)

// ConfigRepository интерфейс репозитория конфигураций доступности
type ConfigRepository interface {
	GetByTherapistID(ctx context.Context, therapistID int64) (*domain.AvailabilityConfig, error)
	Upsert(ctx context.Context, cfg *domain.AvailabilityConfig) (*domain.AvailabilityConfig, error)
}

// ConfigCache интерфейс кэша конфигураций доступности
type ConfigCache interface {
	Get(ctx context.Context, therapistID int64) (*domain.AvailabilityConfig, error)
	Set(ctx context.Context, cfg *domain.AvailabilityConfig) error
	Invalidate(ctx context.Context, therapistID int64) error
}

// Metrics интерфейс доменных метрик
type Metrics interface {
	IncCacheRequest(result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
