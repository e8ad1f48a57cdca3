package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-TherapyBookingService/internal/domain"
)

const keyPrefix = "availability:therapist:"

// AvailabilityCache кэш конфигураций доступности терапевтов в Redis
// Значение хранится в JSON и живёт ttl; при сохранении конфигурации ключ удаляется
type AvailabilityCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewAvailabilityCache создает кэш конфигураций доступности
func NewAvailabilityCache(client redis.Cmdable, ttl time.Duration) *AvailabilityCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &AvailabilityCache{client: client, ttl: ttl}
}

// Get возвращает конфигурацию из кэша или ErrCacheMiss
func (c *AvailabilityCache) Get(ctx context.Context, therapistID int64) (*domain.AvailabilityConfig, error) {
	data, err := c.client.Get(ctx, key(therapistID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get therapist=%d: %v", ErrCache, therapistID, err)
	}

	var cfg domain.AvailabilityConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: decode therapist=%d: %v", ErrCache, therapistID, err)
	}

	return &cfg, nil
}

// Set сохраняет конфигурацию в кэш
func (c *AvailabilityCache) Set(ctx context.Context, cfg *domain.AvailabilityConfig) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("%w: encode therapist=%d: %v", ErrCache, cfg.TherapistID, err)
	}

	if err := c.client.Set(ctx, key(cfg.TherapistID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("%w: set therapist=%d: %v", ErrCache, cfg.TherapistID, err)
	}

	return nil
}

// Invalidate удаляет конфигурацию из кэша
func (c *AvailabilityCache) Invalidate(ctx context.Context, therapistID int64) error {
	if err := c.client.Del(ctx, key(therapistID)).Err(); err != nil {
		return fmt.Errorf("%w: del therapist=%d: %v", ErrCache, therapistID, err)
	}
	return nil
}

func key(therapistID int64) string {
	return fmt.Sprintf("%s%d", keyPrefix, therapistID)
}

// NopCache используется, когда Redis выключен: каждый Get - промах
type NopCache struct{}

func (NopCache) Get(context.Context, int64) (*domain.AvailabilityConfig, error) {
	return nil, ErrCacheMiss
}

func (NopCache) Set(context.Context, *domain.AvailabilityConfig) error {
	return nil
}

func (NopCache) Invalidate(context.Context, int64) error {
	return nil
}
