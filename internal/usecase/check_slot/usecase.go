package check_slot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-TherapyBookingService/internal/availability"
	"github.com/m04kA/SMC-TherapyBookingService/internal/domain"
	"github.com/m04kA/SMC-TherapyBookingService/internal/integrations/catalogservice"
)

// UseCase use case проверки одного слота
type UseCase struct {
	bookingRepo  BookingRepository
	availability AvailabilityProvider
	catalog      CatalogClient
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	availability AvailabilityProvider,
	catalog CatalogClient,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	if timeProvider == nil {
		timeProvider = &RealTimeProvider{}
	}
	return &UseCase{
		bookingRepo:  bookingRepo,
		availability: availability,
		catalog:      catalog,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Execute возвращает вердикт по слоту с причиной отказа
// Недоступный слот не является ошибкой
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CheckSlot: therapist=%d, service=%d, start=%s",
		req.TherapistID, req.ServiceID, req.StartAt.Format(time.RFC3339))

	// 1. Валидация входных данных
	if req.TherapistID <= 0 || req.ServiceID <= 0 {
		uc.logger.Warn("CheckSlot: invalid ids therapist=%d, service=%d", req.TherapistID, req.ServiceID)
		return nil, fmt.Errorf("%w: therapistID and serviceID must be positive", ErrInvalidInput)
	}
	if req.StartAt.IsZero() {
		uc.logger.Warn("CheckSlot: start time is not set")
		return nil, fmt.Errorf("%w: start time is required", ErrInvalidInput)
	}

	now := uc.timeProvider.Now()

	// 2. Получаем услугу
	service, err := uc.catalog.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogservice.ErrServiceNotFound) {
			uc.logger.Warn("CheckSlot: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CheckSlot: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	if service.TherapistID != req.TherapistID {
		uc.logger.Warn("CheckSlot: service id=%d belongs to therapist=%d", req.ServiceID, service.TherapistID)
		return nil, ErrServiceNotFound
	}
	if !service.IsActive {
		uc.logger.Warn("CheckSlot: service id=%d is not active", req.ServiceID)
		return nil, ErrServiceInactive
	}

	// 3. Получаем конфигурацию доступности
	cfg, _, err := uc.availability.GetOrDefault(ctx, req.TherapistID)
	if err != nil {
		uc.logger.Error("CheckSlot: failed to get availability for therapist=%d: %v", req.TherapistID, err)
		return nil, fmt.Errorf("%w: failed to get availability: %v", ErrInternal, err)
	}

	candidate := availability.Candidate{Start: req.StartAt, DurationMinutes: service.DurationMinutes}

	// 4. Бронирования, которые с учётом буфера могут пересечься с кандидатом
	buffer := time.Duration(cfg.BufferMinutes) * time.Minute
	from := candidate.Start.Add(-buffer)
	to := candidate.End().Add(buffer)
	bookings, err := uc.bookingRepo.GetByTherapistWithFilter(ctx, domain.TherapistBookingsFilter{
		TherapistID: req.TherapistID,
		From:        &from,
		To:          &to,
	})
	if err != nil {
		uc.logger.Error("CheckSlot: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 5. Проверяем слот
	verdict, err := availability.IsSlotBookable(cfg, candidate, bookings, now)
	if err != nil {
		if errors.Is(err, availability.ErrInvalidConfig) {
			uc.logger.Error("CheckSlot: stored config of therapist=%d is invalid: %v", req.TherapistID, err)
			return nil, fmt.Errorf("%w: invalid availability config: %v", ErrInternal, err)
		}
		uc.logger.Warn("CheckSlot: invalid candidate: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if verdict.OK {
		uc.logger.Info("CheckSlot: slot is bookable")
	} else {
		uc.logger.Info("CheckSlot: slot rejected with reason=%s", verdict.Reason)
	}

	return &Response{
		TherapistID:     req.TherapistID,
		ServiceID:       req.ServiceID,
		StartAt:         candidate.Start,
		EndAt:           candidate.End(),
		DurationMinutes: service.DurationMinutes,
		OK:              verdict.OK,
		Reason:          verdict.Reason,
	}, nil
}
