package catalogservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
)

// Client клиент для работы с каталогом услуг
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*Service]
	log        Logger
}

// NewClient создает новый экземпляр клиента каталога
// После maxFailures подряд неудачных запросов breaker размыкается на openTimeout
func NewClient(baseURL string, timeout time.Duration, maxFailures uint32, openTimeout time.Duration, log Logger) *Client {
	settings := gobreaker.Settings{
		Name:        "catalogservice",
		MaxRequests: 1,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("Circuit breaker %s changed state: %s -> %s", name, from, to)
		},
		// Отсутствие услуги это ответ сервиса, а не его отказ
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrServiceNotFound)
		},
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		breaker: gobreaker.NewCircuitBreaker[*Service](settings),
		log:     log,
	}
}

// GetService получает услугу по ID
func (c *Client) GetService(ctx context.Context, serviceID int64) (*Service, error) {
	c.log.Info("Fetching service_id=%d from catalog", serviceID)

	service, err := c.breaker.Execute(func() (*Service, error) {
		return c.fetchService(ctx, serviceID)
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrServiceNotFound):
			c.log.Warn("Service not found in catalog: service_id=%d", serviceID)
			return nil, err
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			c.log.Error("Catalog circuit breaker is open, service_id=%d: %v", serviceID, err)
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		default:
			c.log.Error("Failed to fetch service_id=%d: %v", serviceID, err)
			return nil, err
		}
	}

	c.log.Info("Successfully fetched service_id=%d, duration=%d min", serviceID, service.DurationMinutes)
	return service, nil
}

func (c *Client) fetchService(ctx context.Context, serviceID int64) (*Service, error) {
	url := fmt.Sprintf("%s/internal/services/%d", c.baseURL, serviceID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrServiceNotFound
	case http.StatusBadRequest:
		return nil, fmt.Errorf("%w: invalid service ID format", ErrInvalidResponse)
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var service Service
	if err := json.NewDecoder(resp.Body).Decode(&service); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &service, nil
}
