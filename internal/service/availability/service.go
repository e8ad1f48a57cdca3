package availability

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-TherapyBookingService/internal/availability"
	"github.com/m04kA/SMC-TherapyBookingService/internal/domain"
	"github.com/m04kA/SMC-TherapyBookingService/internal/infra/cache"
	availabilityRepo "github.com/m04kA/SMC-TherapyBookingService/internal/infra/storage/availability"
	"github.com/m04kA/SMC-TherapyBookingService/internal/service/availability/models"
)

// Результаты обращения к кэшу для метрик
const (
	cacheHit   = "hit"
	cacheMiss  = "miss"
	cacheError = "error"
)

// Service сервис настроек доступности терапевтов
type Service struct {
	configRepo      ConfigRepository
	cache           ConfigCache
	metrics         Metrics
	defaultTimeZone string
	logger          Logger
}

// NewService создает новый экземпляр сервиса доступности
func NewService(
	configRepo ConfigRepository,
	cache ConfigCache,
	metrics Metrics,
	defaultTimeZone string,
	logger Logger,
) *Service {
	return &Service{
		configRepo:      configRepo,
		cache:           cache,
		metrics:         metrics,
		defaultTimeZone: defaultTimeZone,
		logger:          logger,
	}
}

// Get возвращает сохранённую конфигурацию терапевта
// Сначала читает кэш, при промахе идёт в БД и прогревает кэш
func (s *Service) Get(ctx context.Context, therapistID int64) (*domain.AvailabilityConfig, error) {
	cfg, err := s.cache.Get(ctx, therapistID)
	switch {
	case err == nil:
		s.metrics.IncCacheRequest(cacheHit)
		return cfg, nil
	case errors.Is(err, cache.ErrCacheMiss):
		s.metrics.IncCacheRequest(cacheMiss)
	default:
		// Кэш недоступен - работаем напрямую с БД
		s.metrics.IncCacheRequest(cacheError)
		s.logger.Warn("Get: cache error for therapist=%d: %v", therapistID, err)
	}

	cfg, err = s.configRepo.GetByTherapistID(ctx, therapistID)
	if err != nil {
		if errors.Is(err, availabilityRepo.ErrConfigNotFound) {
			return nil, ErrConfigNotFound
		}
		s.logger.Error("Get: repository error for therapist=%d: %v", therapistID, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	if err := s.cache.Set(ctx, cfg); err != nil {
		s.logger.Warn("Get: failed to cache config for therapist=%d: %v", therapistID, err)
	}

	return cfg, nil
}

// GetOrDefault возвращает конфигурацию терапевта или значения по умолчанию, если её нет
// Второе значение true, если вернулись значения по умолчанию
func (s *Service) GetOrDefault(ctx context.Context, therapistID int64) (*domain.AvailabilityConfig, bool, error) {
	cfg, err := s.Get(ctx, therapistID)
	if err == nil {
		return cfg, false, nil
	}
	if errors.Is(err, ErrConfigNotFound) {
		s.logger.Info("GetOrDefault: no config for therapist=%d, using defaults", therapistID)
		return domain.DefaultAvailabilityConfig(therapistID, s.defaultTimeZone), true, nil
	}
	return nil, false, err
}

// GetResponse возвращает конфигурацию для публичного API
func (s *Service) GetResponse(ctx context.Context, therapistID int64) (*models.AvailabilityResponse, error) {
	s.logger.Info("GetResponse: fetching availability for therapist=%d", therapistID)

	cfg, isDefault, err := s.GetOrDefault(ctx, therapistID)
	if err != nil {
		return nil, err
	}

	resp := models.FromDomain(cfg)
	resp.IsDefault = isDefault
	return resp, nil
}

// Save сохраняет конфигурацию целиком
// Доступно самому терапевту и администратору
// Конфигурация нормализуется перед записью: дубли customSchedule схлопываются (последняя запись побеждает)
func (s *Service) Save(ctx context.Context, req *models.SaveAvailabilityRequest) (*models.AvailabilityResponse, error) {
	s.logger.Info("Save: saving availability for therapist=%d by user=%d (%s)",
		req.TherapistID, req.Actor.UserID, req.Actor.Role)

	// 1. Проверяем права доступа
	if !req.Actor.CanManageTherapist(req.TherapistID) {
		s.logger.Warn("Save: user=%d is not allowed to manage therapist=%d", req.Actor.UserID, req.TherapistID)
		return nil, ErrAccessDenied
	}

	// 2. Нормализуем и валидируем конфигурацию
	raw := req.Body.ToDomain(req.TherapistID)
	if raw.TimeZone == "" {
		raw.TimeZone = s.defaultTimeZone
	}

	normalized, err := availability.NormalizeConfig(raw)
	if err != nil {
		var cfgErr *availability.ConfigError
		if errors.As(err, &cfgErr) {
			s.logger.Warn("Save: invalid config for therapist=%d: %v", req.TherapistID, err)
			return nil, fmt.Errorf("%w: %s: %s", ErrInvalidInput, cfgErr.Field, cfgErr.Reason)
		}
		s.logger.Error("Save: failed to normalize config for therapist=%d: %v", req.TherapistID, err)
		return nil, fmt.Errorf("%w: Save - normalize: %v", ErrInternal, err)
	}

	// 3. Проверяем ограничения продукта
	if err := validateLimits(normalized.Config); err != nil {
		s.logger.Warn("Save: config for therapist=%d exceeds limits: %v", req.TherapistID, err)
		return nil, err
	}

	// 4. Фиксируем дубли для аудита
	duplicates := make([]string, 0, len(normalized.DuplicateDates))
	for _, d := range normalized.DuplicateDates {
		duplicates = append(duplicates, d.String())
	}
	if normalized.HasDuplicates() {
		s.logger.Warn("Save: audit: therapist=%d customSchedule had duplicate dates [%s], last entry kept",
			req.TherapistID, strings.Join(duplicates, ", "))
	}

	// 5. Сохраняем целиком
	saved, err := s.configRepo.Upsert(ctx, normalized.Config)
	if err != nil {
		s.logger.Error("Save: repository error for therapist=%d: %v", req.TherapistID, err)
		return nil, fmt.Errorf("%w: Save - repository error: %v", ErrInternal, err)
	}

	// 6. Сбрасываем кэш
	s.invalidate(ctx, req.TherapistID)

	s.logger.Info("Save: successfully saved availability for therapist=%d", req.TherapistID)
	resp := models.FromDomain(saved)
	if len(duplicates) > 0 {
		resp.DuplicateDates = duplicates
	}
	return resp, nil
}

// CreateDefault сохраняет конфигурацию по умолчанию при онбординге терапевта
func (s *Service) CreateDefault(ctx context.Context, req *models.CreateDefaultRequest) (*models.AvailabilityResponse, error) {
	s.logger.Info("CreateDefault: creating default availability for therapist=%d by user=%d",
		req.TherapistID, req.Actor.UserID)

	if !req.Actor.CanManageTherapist(req.TherapistID) {
		s.logger.Warn("CreateDefault: user=%d is not allowed to manage therapist=%d", req.Actor.UserID, req.TherapistID)
		return nil, ErrAccessDenied
	}

	saved, err := s.configRepo.Upsert(ctx, domain.DefaultAvailabilityConfig(req.TherapistID, s.defaultTimeZone))
	if err != nil {
		s.logger.Error("CreateDefault: repository error for therapist=%d: %v", req.TherapistID, err)
		return nil, fmt.Errorf("%w: CreateDefault - repository error: %v", ErrInternal, err)
	}

	s.invalidate(ctx, req.TherapistID)

	s.logger.Info("CreateDefault: successfully created default availability for therapist=%d", req.TherapistID)
	return models.FromDomain(saved), nil
}

func (s *Service) invalidate(ctx context.Context, therapistID int64) {
	if err := s.cache.Invalidate(ctx, therapistID); err != nil {
		s.logger.Warn("invalidate: failed to drop cached config for therapist=%d: %v", therapistID, err)
	}
}
