package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-TherapyBookingService/internal/availability"
	"github.com/m04kA/SMC-TherapyBookingService/internal/domain"
	"github.com/m04kA/SMC-TherapyBookingService/internal/infra/events"
	availabilityRepo "github.com/m04kA/SMC-TherapyBookingService/internal/infra/storage/availability"
	bookingRepo "github.com/m04kA/SMC-TherapyBookingService/internal/infra/storage/booking"
	couponRepo "github.com/m04kA/SMC-TherapyBookingService/internal/infra/storage/coupon"
	"github.com/m04kA/SMC-TherapyBookingService/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-TherapyBookingService/internal/integrations/clientservice"
	"github.com/m04kA/SMC-TherapyBookingService/pkg/txmanager"
)

// Options параметры use case из конфигурации приложения
type Options struct {
	DefaultTimeZone     string // часовой пояс терапевта без сохранённой конфигурации
	PaymentLinkTemplate string // шаблон ссылки на оплату с %d для ID бронирования, пустой - без ссылки
}

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo      BookingRepository
	availabilityRepo AvailabilityRepository
	couponRepo       CouponRepository
	catalog          CatalogClient
	clients          ClientDirectory
	publisher        EventPublisher
	metrics          Metrics
	txManager        TransactionManager
	timeProvider     TimeProvider
	opts             Options
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	availabilityRepo AvailabilityRepository,
	couponRepo CouponRepository,
	catalog CatalogClient,
	clients ClientDirectory,
	publisher EventPublisher,
	metrics Metrics,
	txManager TransactionManager,
	timeProvider TimeProvider,
	opts Options,
	logger Logger,
) *UseCase {
	if timeProvider == nil {
		timeProvider = &RealTimeProvider{}
	}
	return &UseCase{
		bookingRepo:      bookingRepo,
		availabilityRepo: availabilityRepo,
		couponRepo:       couponRepo,
		catalog:          catalog,
		clients:          clients,
		publisher:        publisher,
		metrics:          metrics,
		txManager:        txManager,
		timeProvider:     timeProvider,
		opts:             opts,
		logger:           logger,
	}
}

// Execute выполняет use case создания бронирования
// Проверка слота повторяется внутри сериализуемой транзакции перед вставкой:
// результат перечисления слотов мог устареть к моменту бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: client=%d, therapist=%d, service=%d, start=%s",
		req.ClientID, req.TherapistID, req.ServiceID, req.StartAt.Format(time.RFC3339))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем услугу из каталога
	service, err := uc.getService(ctx, req)
	if err != nil {
		return nil, err
	}

	// 3. Получаем контактные данные клиента (не критично при недоступности справочника)
	client, err := uc.clients.GetClientWithGracefulDegradation(ctx, req.ClientID)
	if err != nil {
		if errors.Is(err, clientservice.ErrClientNotFound) {
			uc.logger.Warn("CreateBooking: client id=%d not found", req.ClientID)
			return nil, ErrClientNotFound
		}
		uc.logger.Warn("CreateBooking: continuing without client contact for client=%d: %v", req.ClientID, err)
		client = nil
	}

	// 4. Текущее время фиксируется один раз на всю проверку
	now := uc.timeProvider.Now()

	var result *domain.Booking

	// 5. Проверка и вставка в одной сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Конфигурация доступности терапевта
		cfg, err := uc.loadConfig(txCtx, req.TherapistID)
		if err != nil {
			return err
		}

		// 5.2. Бронирования терапевта вокруг слота с учётом буфера (с блокировкой FOR UPDATE)
		candidate := availability.Candidate{Start: req.StartAt, DurationMinutes: service.DurationMinutes}
		buffer := time.Duration(cfg.BufferMinutes) * time.Minute
		from := candidate.Start.Add(-buffer)
		to := candidate.End().Add(buffer)

		existing, err := uc.bookingRepo.GetByTherapistWithFilter(txCtx, domain.TherapistBookingsFilter{
			TherapistID: req.TherapistID,
			From:        &from,
			To:          &to,
		})
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get bookings: %v", err)
			return internalError("failed to get bookings", err)
		}

		// 5.3. Проверяем слот
		verdict, err := availability.IsSlotBookable(cfg, candidate, existing, now)
		if err != nil {
			uc.logger.Error("CreateBooking: stored config of therapist=%d is invalid: %v", req.TherapistID, err)
			return fmt.Errorf("%w: invalid availability config: %v", ErrInternal, err)
		}
		if !verdict.OK {
			uc.logger.Warn("CreateBooking: slot %s rejected for therapist=%d: %s",
				req.StartAt.Format(time.RFC3339), req.TherapistID, verdict.Reason)
			uc.metrics.IncSlotRejection(verdict.Reason.String())
			return &SlotNotAvailableError{Reason: verdict.Reason}
		}

		// 5.4. Применяем купон
		discount, err := uc.applyCoupon(txCtx, req.CouponCode, service.Price, now)
		if err != nil {
			return err
		}

		// 5.5. Создаем бронирование с денормализацией данных
		booking := &domain.Booking{
			ClientID:        req.ClientID,
			TherapistID:     req.TherapistID,
			ServiceID:       req.ServiceID,
			StartAt:         req.StartAt.UTC(),
			DurationMinutes: service.DurationMinutes,
			Status:          domain.StatusPending,
			ServiceName:     service.Name,
			ServicePrice:    service.Price,
			DiscountAmount:  discount,
			FinalPrice:      service.Price - discount,
			CouponCode:      req.CouponCode,
			Notes:           req.Notes,
			PaymentStatus:   domain.PaymentUnpaid,
		}
		if client != nil {
			booking.ClientName = &client.Name
			booking.ClientEmail = &client.Email
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrSlotNotAvailable) {
				uc.logger.Warn("CreateBooking: overlapping booking inserted concurrently for therapist=%d", req.TherapistID)
				uc.metrics.IncSlotRejection(availability.ReasonConflict.String())
				return &SlotNotAvailableError{Reason: availability.ReasonConflict}
			}
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return internalError("failed to create booking", err)
		}

		// 5.6. Ссылка на оплату
		if uc.opts.PaymentLinkTemplate != "" {
			link := fmt.Sprintf(uc.opts.PaymentLinkTemplate, created.ID)
			if err := uc.bookingRepo.SetPaymentLink(txCtx, created.ID, link); err != nil {
				uc.logger.Error("CreateBooking: failed to set payment link for booking id=%d: %v", created.ID, err)
				return internalError("failed to set payment link", err)
			}
			created.PaymentLink = &link
		}

		result = created
		return nil
	})

	if err != nil {
		if errors.Is(err, txmanager.ErrSerializationFailure) {
			uc.logger.Warn("CreateBooking: serialization conflict for therapist=%d at %s",
				req.TherapistID, req.StartAt.Format(time.RFC3339))
			uc.metrics.IncSlotRejection(availability.ReasonConflict.String())
			return nil, &SlotNotAvailableError{Reason: availability.ReasonConflict}
		}
		return nil, err
	}

	uc.metrics.IncBookingsCreated(result.TherapistID)
	uc.logger.Info("CreateBooking: successfully created booking id=%d", result.ID)

	// 6. Уведомляем после коммита
	event := events.NewBookingEvent(events.EventBookingCreated, result, now)
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Error("CreateBooking: failed to publish %s for booking id=%d: %v", event.Type, result.ID, err)
	}

	return toResponse(result), nil
}

// getService получает услугу и проверяет, что её можно забронировать у терапевта
func (uc *UseCase) getService(ctx context.Context, req *Request) (*catalogservice.Service, error) {
	service, err := uc.catalog.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogservice.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	if service.TherapistID != req.TherapistID {
		uc.logger.Warn("CreateBooking: service id=%d belongs to therapist=%d, not %d",
			req.ServiceID, service.TherapistID, req.TherapistID)
		return nil, ErrServiceNotFound
	}

	if !service.IsActive {
		uc.logger.Warn("CreateBooking: service id=%d is not active", req.ServiceID)
		return nil, ErrServiceInactive
	}

	if err := validateDuration(service.DurationMinutes); err != nil {
		uc.logger.Error("CreateBooking: catalog returned invalid service id=%d: %v", req.ServiceID, err)
		return nil, err
	}

	return service, nil
}

// loadConfig читает конфигурацию терапевта, при её отсутствии - значения по умолчанию
func (uc *UseCase) loadConfig(ctx context.Context, therapistID int64) (*domain.AvailabilityConfig, error) {
	cfg, err := uc.availabilityRepo.GetByTherapistID(ctx, therapistID)
	if err == nil {
		return cfg, nil
	}
	if errors.Is(err, availabilityRepo.ErrConfigNotFound) {
		uc.logger.Info("CreateBooking: using default availability for therapist=%d", therapistID)
		return domain.DefaultAvailabilityConfig(therapistID, uc.opts.DefaultTimeZone), nil
	}
	uc.logger.Error("CreateBooking: failed to get availability config: %v", err)
	return nil, internalError("failed to get availability config", err)
}

// applyCoupon проверяет купон и увеличивает счётчик использований, возвращает скидку
func (uc *UseCase) applyCoupon(ctx context.Context, code *string, price float64, now time.Time) (float64, error) {
	if code == nil {
		return 0, nil
	}

	coupon, err := uc.couponRepo.GetByCode(ctx, *code)
	if err != nil {
		if errors.Is(err, couponRepo.ErrCouponNotFound) {
			uc.logger.Warn("CreateBooking: coupon code=%s not found", *code)
			return 0, ErrCouponNotFound
		}
		uc.logger.Error("CreateBooking: failed to get coupon code=%s: %v", *code, err)
		return 0, internalError("failed to get coupon", err)
	}

	if !coupon.IsUsableAt(now) {
		uc.logger.Warn("CreateBooking: coupon code=%s is not usable", *code)
		return 0, ErrCouponNotUsable
	}

	if err := uc.couponRepo.IncrementUsage(ctx, coupon.ID); err != nil {
		uc.logger.Error("CreateBooking: failed to increment usage of coupon id=%d: %v", coupon.ID, err)
		return 0, internalError("failed to increment coupon usage", err)
	}

	return coupon.DiscountFor(price), nil
}

// internalError оборачивает ошибку хранилища, сохраняя конфликт сериализации распознаваемым
func internalError(msg string, err error) error {
	if txmanager.IsSerializationFailure(err) {
		return err
	}
	return fmt.Errorf("%w: %s: %v", ErrInternal, msg, err)
}

func toResponse(b *domain.Booking) *Response {
	return &Response{
		ID:              b.ID,
		ClientID:        b.ClientID,
		TherapistID:     b.TherapistID,
		ServiceID:       b.ServiceID,
		StartAt:         b.StartAt,
		EndAt:           b.EndAt(),
		DurationMinutes: b.DurationMinutes,
		Status:          string(b.Status),
		ServiceName:     b.ServiceName,
		ServicePrice:    b.ServicePrice,
		DiscountAmount:  b.DiscountAmount,
		FinalPrice:      b.FinalPrice,
		CouponCode:      b.CouponCode,
		Notes:           b.Notes,
		PaymentStatus:   string(b.PaymentStatus),
		PaymentLink:     b.PaymentLink,
		CreatedAt:       b.CreatedAt,
	}
}
