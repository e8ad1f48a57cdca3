package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-TherapyBookingService/internal/api/handlers"
)

const (
	msgRateLimited = "слишком много запросов, попробуйте позже"
)

var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

// RedisCounter счётчик фиксированного окна в Redis
// Работает корректно при нескольких инстансах сервиса
type RedisCounter struct {
	client redis.Scripter
	window time.Duration
}

// NewRedisCounter создает счётчик с окном window
func NewRedisCounter(client redis.Scripter, window time.Duration) *RedisCounter {
	if window <= 0 {
		window = time.Minute
	}
	return &RedisCounter{client: client, window: window}
}

// Incr увеличивает счётчик ключа и возвращает значение в текущем окне
func (c *RedisCounter) Incr(ctx context.Context, key string) (int64, error) {
	res, err := fixedWindowScript.Run(ctx, c.client, []string{key}, c.window.Milliseconds()).Result()
	if err != nil {
		return 0, err
	}

	switch v := res.(type) {
	case int64:
		return v, nil
	case string:
		return strconv.ParseInt(v, 10, 64)
	default:
		return 0, fmt.Errorf("unexpected rate limit script result type %T", res)
	}
}

// RateLimit ограничивает число запросов пользователя в окне
// При недоступности Redis запрос пропускается (fail open), чтобы не блокировать бронирования
func RateLimit(counter RateCounter, limit int, prefix string, logger Logger) mux.MiddlewareFunc {
	if limit <= 0 {
		limit = 10
	}
	if prefix == "" {
		prefix = "rl"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := prefix + ":" + clientKey(r)

			count, err := counter.Incr(r.Context(), key)
			if err != nil {
				logger.Warn("RateLimit - counter error, passing request: key=%s, error=%v", key, err)
				next.ServeHTTP(w, r)
				return
			}

			if count > int64(limit) {
				logger.Warn("RateLimit - limit exceeded: key=%s, count=%d, limit=%d", key, count, limit)
				handlers.RespondError(w, http.StatusTooManyRequests, msgRateLimited)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientKey пользователь из Auth, иначе IP адрес
func clientKey(r *http.Request) string {
	if userID, ok := GetUserID(r.Context()); ok {
		return "user:" + strconv.FormatInt(userID, 10)
	}

	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return "ip:" + strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return "ip:" + r.RemoteAddr
	}
	return "ip:" + host
}
