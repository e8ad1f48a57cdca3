package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-TherapyBookingService/internal/domain"
	"github.com/m04kA/SMC-TherapyBookingService/internal/infra/events"
	bookingRepo "github.com/m04kA/SMC-TherapyBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-TherapyBookingService/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo  BookingRepository
	txManager    TransactionManager
	publisher    EventPublisher
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	txManager TransactionManager,
	publisher EventPublisher,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		txManager:    txManager,
		publisher:    publisher,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// GetByID получает бронирование по ID
// Доступно клиенту бронирования, его терапевту и администратору
func (s *Service) GetByID(ctx context.Context, id int64, actor domain.Actor) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, actor.UserID)

	booking, err := s.getBooking(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if !actor.CanAccessBooking(booking) {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", actor.UserID, id)
		return nil, ErrAccessDenied
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// GetClientBookings получает историю бронирований клиента
// Опционально фильтрует по статусу
func (s *Service) GetClientBookings(ctx context.Context, req *models.GetClientBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetClientBookings: fetching bookings for client=%d, status=%v", req.ClientID, req.Status)

	if !req.Actor.IsAdmin() && !(req.Actor.Role == domain.RoleClient && req.Actor.UserID == req.ClientID) {
		s.logger.Warn("GetClientBookings: user=%d cannot read bookings of client=%d", req.Actor.UserID, req.ClientID)
		return nil, ErrAccessDenied
	}

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetClientBookings: invalid status=%s for client=%d", *req.Status, req.ClientID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByClientID(ctx, req.ClientID, domainStatus)
	if err != nil {
		s.logger.Error("GetClientBookings: repository error for client=%d: %v", req.ClientID, err)
		return nil, fmt.Errorf("%w: GetClientBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetClientBookings: successfully fetched %d bookings for client=%d", len(bookings), req.ClientID)
	return models.FromDomainBookingList(bookings), nil
}

// GetTherapistBookings получает бронирования терапевта с фильтрацией
// Доступно самому терапевту и администратору
//
// Примеры использования:
//   - Все активные бронирования: только TherapistID
//   - Бронирования за период: From и To (пересечение с периодом)
//   - Только подтвержденные: Status = "confirmed"
//   - Включая отменённые: IncludeInactive = true
func (s *Service) GetTherapistBookings(ctx context.Context, req *models.GetTherapistBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetTherapistBookings: fetching bookings for therapist=%d, from=%v, to=%v, status=%v, includeInactive=%t",
		req.TherapistID, req.From, req.To, req.Status, req.IncludeInactive)

	if !req.Actor.CanManageTherapist(req.TherapistID) {
		s.logger.Warn("GetTherapistBookings: user=%d cannot read bookings of therapist=%d", req.Actor.UserID, req.TherapistID)
		return nil, ErrAccessDenied
	}

	if req.From != nil && req.To != nil && !req.From.Before(*req.To) {
		s.logger.Warn("GetTherapistBookings: empty period for therapist=%d", req.TherapistID)
		return nil, fmt.Errorf("%w: from must be before to", ErrInvalidInput)
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetTherapistBookings: invalid filter for therapist=%d: %v", req.TherapistID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByTherapistWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetTherapistBookings: repository error for therapist=%d: %v", req.TherapistID, err)
		return nil, fmt.Errorf("%w: GetTherapistBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetTherapistBookings: successfully fetched %d bookings for therapist=%d", len(bookings), req.TherapistID)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование
// Клиент может отменить своё бронирование, терапевт и администратор - любое бронирование терапевта
// Отменённое бронирование сразу освобождает время в календаре
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) error {
	s.logger.Info("Cancel: cancelling booking id=%d by user=%d", bookingID, req.Actor.UserID)

	if req.CancellationReason != nil && len(*req.CancellationReason) > domain.MaxCancellationReasonLength {
		return fmt.Errorf("%w: cancellation reason is too long", ErrInvalidInput)
	}

	var cancelled *domain.Booking
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		// GetByID внутри транзакции берёт блокировку строки
		booking, err := s.getBooking(ctx, "Cancel", bookingID)
		if err != nil {
			return err
		}

		if !req.Actor.CanAccessBooking(booking) {
			s.logger.Warn("Cancel: access denied for user=%d to cancel booking id=%d", req.Actor.UserID, bookingID)
			return ErrAccessDenied
		}

		if !booking.CanBeCancelled() {
			s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", bookingID, booking.Status)
			return ErrCannotCancel
		}

		if err := s.bookingRepo.Cancel(ctx, bookingID, req.CancellationReason); err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		now := s.timeProvider.Now()
		booking.Status = domain.StatusCancelled
		booking.CancellationReason = req.CancellationReason
		booking.CancelledAt = &now
		cancelled = booking
		return nil
	})
	if err != nil {
		return err
	}

	s.publish(ctx, events.EventBookingCancelled, cancelled)
	s.logger.Info("Cancel: successfully cancelled booking id=%d", bookingID)
	return nil
}

// UpdateStatus обновляет статус бронирования
// Доступно терапевту бронирования и администратору
// Допустимые переходы: pending -> confirmed -> completed, pending/confirmed -> cancelled
func (s *Service) UpdateStatus(ctx context.Context, bookingID int64, req *models.UpdateStatusRequest) error {
	s.logger.Info("UpdateStatus: updating booking id=%d to status=%s by user=%d",
		bookingID, req.Status, req.Actor.UserID)

	newStatus, err := models.ToDomainBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for booking id=%d", req.Status, bookingID)
		return fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	var updated *domain.Booking
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		booking, err := s.getBooking(ctx, "UpdateStatus", bookingID)
		if err != nil {
			return err
		}

		if !req.Actor.CanManageTherapist(booking.TherapistID) {
			s.logger.Warn("UpdateStatus: user=%d is not staff of therapist=%d", req.Actor.UserID, booking.TherapistID)
			return ErrAccessDenied
		}

		if !booking.CanTransitionTo(newStatus) {
			s.logger.Warn("UpdateStatus: transition %s -> %s is not allowed for booking id=%d",
				booking.Status, newStatus, bookingID)
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, newStatus)
		}

		if newStatus == domain.StatusCancelled {
			err = s.bookingRepo.Cancel(ctx, bookingID, nil)
		} else {
			err = s.bookingRepo.UpdateStatus(ctx, bookingID, newStatus)
		}
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			s.logger.Error("UpdateStatus: repository error for booking id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
		}

		booking.Status = newStatus
		updated = booking
		return nil
	})
	if err != nil {
		return err
	}

	eventType := events.EventBookingStatusChanged
	if newStatus == domain.StatusCancelled {
		eventType = events.EventBookingCancelled
	}
	s.publish(ctx, eventType, updated)

	s.logger.Info("UpdateStatus: successfully updated booking id=%d to status=%s", bookingID, newStatus)
	return nil
}

// UpdatePayment фиксирует изменение статуса оплаты
// Оплата проходит по внешней ссылке, сервис только отслеживает статус
// Допустимые переходы: unpaid -> paid -> refunded
func (s *Service) UpdatePayment(ctx context.Context, bookingID int64, req *models.UpdatePaymentRequest) error {
	s.logger.Info("UpdatePayment: updating payment of booking id=%d to %s by user=%d",
		bookingID, req.PaymentStatus, req.Actor.UserID)

	newStatus, err := models.ToDomainPaymentStatus(req.PaymentStatus)
	if err != nil {
		s.logger.Warn("UpdatePayment: invalid payment status=%s for booking id=%d", req.PaymentStatus, bookingID)
		return fmt.Errorf("%w: invalid payment status", ErrInvalidInput)
	}

	var updated *domain.Booking
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		booking, err := s.getBooking(ctx, "UpdatePayment", bookingID)
		if err != nil {
			return err
		}

		if !req.Actor.CanManageTherapist(booking.TherapistID) {
			s.logger.Warn("UpdatePayment: user=%d is not staff of therapist=%d", req.Actor.UserID, booking.TherapistID)
			return ErrAccessDenied
		}

		if !booking.CanChangePaymentTo(newStatus) {
			s.logger.Warn("UpdatePayment: transition %s -> %s is not allowed for booking id=%d",
				booking.PaymentStatus, newStatus, bookingID)
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.PaymentStatus, newStatus)
		}

		if err := s.bookingRepo.UpdatePayment(ctx, bookingID, newStatus); err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			s.logger.Error("UpdatePayment: repository error for booking id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: UpdatePayment - repository error: %v", ErrInternal, err)
		}

		booking.PaymentStatus = newStatus
		if newStatus == domain.PaymentPaid {
			now := s.timeProvider.Now()
			booking.PaidAt = &now
		}
		updated = booking
		return nil
	})
	if err != nil {
		return err
	}

	eventType := events.EventBookingPaid
	if newStatus == domain.PaymentRefunded {
		eventType = events.EventBookingRefunded
	}
	s.publish(ctx, eventType, updated)

	s.logger.Info("UpdatePayment: successfully updated payment of booking id=%d to %s", bookingID, newStatus)
	return nil
}

// Вспомогательные методы

func (s *Service) getBooking(ctx context.Context, op string, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

// publish отправляет событие после коммита; ошибка публикации не отменяет операцию
func (s *Service) publish(ctx context.Context, eventType events.EventType, booking *domain.Booking) {
	event := events.NewBookingEvent(eventType, booking, s.timeProvider.Now())
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("publish: failed to publish %s for booking id=%d: %v", eventType, booking.ID, err)
	}
}
