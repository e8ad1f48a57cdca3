package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TherapyBookingService/internal/domain"
	"github.com/m04kA/SMC-TherapyBookingService/pkg/types"
)

// Тест работает с настоящим Redis: REDIS_ADDR=localhost:6379 go test ./internal/infra/cache/...
func newTestCache(t *testing.T) *AvailabilityCache {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR is not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(context.Background()).Err())

	return NewAvailabilityCache(client, time.Minute)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "availability:therapist:42", key(42))
}

func TestAvailabilityCache_RoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()
	therapistID := time.Now().UnixNano()

	_, err := c.Get(ctx, therapistID)
	require.ErrorIs(t, err, ErrCacheMiss)

	cfg := domain.DefaultAvailabilityConfig(therapistID, "Europe/Moscow")
	cfg.BlockedDates = []types.DateString{"2025-01-01"}
	require.NoError(t, c.Set(ctx, cfg))

	cached, err := c.Get(ctx, therapistID)
	require.NoError(t, err)
	assert.Equal(t, cfg.WorkingDays, cached.WorkingDays)
	assert.Equal(t, cfg.WorkingHours, cached.WorkingHours)
	assert.Equal(t, cfg.BlockedDates, cached.BlockedDates)
	assert.Equal(t, cfg.TimeZone, cached.TimeZone)

	require.NoError(t, c.Invalidate(ctx, therapistID))
	_, err = c.Get(ctx, therapistID)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestNopCache_AlwaysMisses(t *testing.T) {
	var c NopCache
	ctx := context.Background()

	assert.NoError(t, c.Set(ctx, &domain.AvailabilityConfig{TherapistID: 7}))
	_, err := c.Get(ctx, 7)
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.NoError(t, c.Invalidate(ctx, 7))
}
