package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-TherapyBookingService/internal/availability"
	"github.com/m04kA/SMC-TherapyBookingService/internal/domain"
	"github.com/m04kA/SMC-TherapyBookingService/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-TherapyBookingService/pkg/types"
)

// UseCase use case для получения доступных слотов для бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	availability AvailabilityProvider
	catalog      CatalogClient
	timeProvider TimeProvider
	opts         Options
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	availability AvailabilityProvider,
	catalog CatalogClient,
	timeProvider TimeProvider,
	opts Options,
	logger Logger,
) *UseCase {
	if timeProvider == nil {
		timeProvider = &RealTimeProvider{}
	}
	if opts.DefaultStepMinutes <= 0 {
		opts.DefaultStepMinutes = domain.DefaultSlotStepMinutes
	}
	if opts.MaxRangeDays <= 0 {
		opts.MaxRangeDays = domain.MaxSlotRangeDays
	}
	return &UseCase{
		bookingRepo:  bookingRepo,
		availability: availability,
		catalog:      catalog,
		timeProvider: timeProvider,
		opts:         opts,
		logger:       logger,
	}
}

// Execute выполняет use case получения доступных слотов
// Результат информационный: бронирование повторно проверяет слот в транзакции
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: therapist=%d, service=%d, from=%s, to=%s, step=%d",
		req.TherapistID, req.ServiceID, req.From, req.To, req.StepMinutes)

	// 1. Валидация входных данных
	if err := validateRequest(req, uc.opts); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем услугу (длительность)
	service, err := uc.catalog.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogservice.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	if service.TherapistID != req.TherapistID {
		uc.logger.Warn("GetAvailableSlots: service id=%d belongs to therapist=%d", req.ServiceID, service.TherapistID)
		return nil, ErrServiceNotFound
	}
	if !service.IsActive {
		uc.logger.Warn("GetAvailableSlots: service id=%d is not active", req.ServiceID)
		return nil, ErrServiceInactive
	}

	// 4. Получаем конфигурацию доступности
	cfg, isDefault, err := uc.availability.GetOrDefault(ctx, req.TherapistID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get availability for therapist=%d: %v", req.TherapistID, err)
		return nil, fmt.Errorf("%w: failed to get availability: %v", ErrInternal, err)
	}
	if isDefault {
		uc.logger.Info("GetAvailableSlots: using default availability for therapist=%d", req.TherapistID)
	}

	loc, err := cfg.Location()
	if err != nil {
		uc.logger.Error("GetAvailableSlots: invalid time zone %q of therapist=%d: %v", cfg.TimeZone, req.TherapistID, err)
		return nil, fmt.Errorf("%w: invalid time zone: %v", ErrInternal, err)
	}

	// 5. Получаем активные бронирования за период с запасом на буфер
	from, to, err := bookingWindow(req.From, req.To, loc, cfg.BufferMinutes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	bookings, err := uc.bookingRepo.GetByTherapistWithFilter(ctx, domain.TherapistBookingsFilter{
		TherapistID: req.TherapistID,
		From:        &from,
		To:          &to,
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 6. Перечисляем слоты
	seq, err := availability.EnumerateRange(cfg, req.From, req.To, service.DurationMinutes, req.StepMinutes, bookings, now)
	if err != nil {
		if errors.Is(err, availability.ErrInvalidConfig) {
			uc.logger.Error("GetAvailableSlots: stored config of therapist=%d is invalid: %v", req.TherapistID, err)
			return nil, fmt.Errorf("%w: invalid availability config: %v", ErrInternal, err)
		}
		uc.logger.Warn("GetAvailableSlots: invalid slot parameters: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	resp := &Response{
		TherapistID:     req.TherapistID,
		ServiceID:       req.ServiceID,
		TimeZone:        loc.String(),
		DurationMinutes: service.DurationMinutes,
		StepMinutes:     req.StepMinutes,
		Days:            groupByDate(availability.CollectSlots(seq, 0), loc),
	}

	uc.logger.Info("GetAvailableSlots: found slots on %d days for therapist=%d", len(resp.Days), req.TherapistID)
	return resp, nil
}

// bookingWindow возвращает интервал, в котором бронирования могут повлиять на слоты периода
func bookingWindow(fromDate, toDate types.DateString, loc *time.Location, bufferMinutes int) (time.Time, time.Time, error) {
	start, err := fromDate.Time(loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	lastDay, err := toDate.Time(loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	buffer := time.Duration(bufferMinutes) * time.Minute
	return start.Add(-buffer), lastDay.AddDate(0, 0, 1).Add(buffer), nil
}

// groupByDate раскладывает упорядоченные слоты по датам терапевта
func groupByDate(slots []domain.Slot, loc *time.Location) []Day {
	days := make([]Day, 0)
	for _, slot := range slots {
		start := slot.Start.In(loc)
		date := types.NewDateString(start)

		if len(days) == 0 || days[len(days)-1].Date != date {
			days = append(days, Day{Date: date, Slots: make([]Slot, 0)})
		}

		last := &days[len(days)-1]
		last.Slots = append(last.Slots, Slot{
			StartAt:   start,
			EndAt:     slot.End.In(loc),
			StartTime: types.NewTimeString(start),
		})
	}
	return days
}
