package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TherapyBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-TherapyBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-TherapyBookingService/internal/availability"
	createBooking "github.com/m04kA/SMC-TherapyBookingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidStartAt     = "некорректное время начала, ожидается RFC 3339 с часовым поясом"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgServiceNotFound    = "услуга не найдена"
	msgServiceInactive    = "услуга недоступна для записи"
	msgClientNotFound     = "клиент не найден"
	msgCouponNotFound     = "купон не найден"
	msgCouponNotUsable    = "купон недействителен"
	msgCatalogUnavailable = "каталог услуг временно недоступен"
	msgInvalidInput       = "некорректные данные бронирования"
)

// Сообщения об отказе по коду причины
var slotMessages = map[availability.ReasonCode]string{
	availability.ReasonTooSoon:       "слишком поздно для записи на это время",
	availability.ReasonTooFar:        "запись на эту дату ещё не открыта",
	availability.ReasonDateBlocked:   "терапевт не принимает в эту дату",
	availability.ReasonNotWorkingDay: "нерабочий день терапевта",
	availability.ReasonOutsideHours:  "время вне рабочих часов терапевта",
	availability.ReasonDuringBreak:   "время приходится на перерыв терапевта",
	availability.ReasonConflict:      "выбранное время уже занято, обновите список свободных слотов",
}

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Клиент берётся из контекста (через middleware Auth)
	clientID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(clientID)
	if err != nil {
		h.logger.Warn("POST /bookings - Invalid startAt %q: %v", req.StartAt, err)
		handlers.RespondBadRequest(w, msgInvalidStartAt)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotNotAvailable):
			reason, _ := createBooking.ReasonOf(err)
			h.logger.Warn("POST /bookings - Slot not available: client_id=%d, therapist_id=%d, reason=%s",
				clientID, req.TherapistID, reason)
			handlers.RespondErrorWithReason(w, http.StatusConflict, slotMessage(reason), reason.String())

		case errors.Is(err, createBooking.ErrServiceNotFound):
			h.logger.Warn("POST /bookings - Service not found: service_id=%d", req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createBooking.ErrClientNotFound):
			h.logger.Warn("POST /bookings - Client not found: client_id=%d", clientID)
			handlers.RespondNotFound(w, msgClientNotFound)

		case errors.Is(err, createBooking.ErrCouponNotFound):
			h.logger.Warn("POST /bookings - Coupon not found: client_id=%d", clientID)
			handlers.RespondNotFound(w, msgCouponNotFound)

		case errors.Is(err, createBooking.ErrServiceInactive):
			h.logger.Warn("POST /bookings - Service inactive: service_id=%d", req.ServiceID)
			handlers.RespondBadRequest(w, msgServiceInactive)

		case errors.Is(err, createBooking.ErrCouponNotUsable):
			h.logger.Warn("POST /bookings - Coupon not usable: client_id=%d", clientID)
			handlers.RespondBadRequest(w, msgCouponNotUsable)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createBooking.ErrCatalogUnavailable):
			h.logger.Error("POST /bookings - Catalog unavailable: %v", err)
			handlers.RespondServiceUnavailable(w, msgCatalogUnavailable)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: client_id=%d, therapist_id=%d, error=%v",
				clientID, req.TherapistID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, client_id=%d, therapist_id=%d",
		result.ID, clientID, result.TherapistID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}

func slotMessage(reason availability.ReasonCode) string {
	if msg, ok := slotMessages[reason]; ok {
		return msg
	}
	return slotMessages[availability.ReasonConflict]
}
