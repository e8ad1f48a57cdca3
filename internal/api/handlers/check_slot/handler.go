package check_slot

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-TherapyBookingService/internal/api/handlers"
	checkSlot "github.com/m04kA/SMC-TherapyBookingService/internal/usecase/check_slot"
)

const (
	msgInvalidTherapistID = "некорректный ID терапевта"
	msgInvalidServiceID   = "некорректный или отсутствующий ID услуги"
	msgInvalidStart       = "некорректное время начала, ожидается RFC 3339 с часовым поясом"
	msgServiceNotFound    = "услуга не найдена"
	msgServiceInactive    = "услуга недоступна для записи"
	msgCatalogUnavailable = "каталог услуг временно недоступен"
)

type Handler struct {
	useCase CheckSlotUseCase
	logger  Logger
}

func NewHandler(useCase CheckSlotUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/therapists/{therapistId}/slot-check
// Query params: serviceId, start (RFC 3339)
// Занятый слот возвращается с 200 и ok=false
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	therapistID, err := handlers.PathInt64(r, "therapistId")
	if err != nil {
		h.logger.Warn("GET /therapists/{id}/slot-check - Invalid therapist ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTherapistID)
		return
	}

	serviceID, err := handlers.QueryInt64(r, "serviceId")
	if err != nil || serviceID == 0 {
		h.logger.Warn("GET /therapists/{id}/slot-check - Invalid service ID: %q", r.URL.Query().Get("serviceId"))
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	start, err := time.Parse(time.RFC3339, r.URL.Query().Get("start"))
	if err != nil {
		h.logger.Warn("GET /therapists/{id}/slot-check - Invalid start: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStart)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &checkSlot.Request{
		TherapistID: therapistID,
		ServiceID:   serviceID,
		StartAt:     start,
	})
	if err != nil {
		switch {
		case errors.Is(err, checkSlot.ErrInvalidInput):
			h.logger.Warn("GET /therapists/{id}/slot-check - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidStart)

		case errors.Is(err, checkSlot.ErrServiceNotFound):
			h.logger.Warn("GET /therapists/{id}/slot-check - Service not found: therapist_id=%d, service_id=%d",
				therapistID, serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, checkSlot.ErrServiceInactive):
			h.logger.Warn("GET /therapists/{id}/slot-check - Service inactive: service_id=%d", serviceID)
			handlers.RespondBadRequest(w, msgServiceInactive)

		case errors.Is(err, checkSlot.ErrCatalogUnavailable):
			h.logger.Error("GET /therapists/{id}/slot-check - Catalog unavailable: %v", err)
			handlers.RespondServiceUnavailable(w, msgCatalogUnavailable)

		default:
			h.logger.Error("GET /therapists/{id}/slot-check - Failed to check slot: therapist_id=%d, error=%v",
				therapistID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /therapists/{id}/slot-check - therapist_id=%d, ok=%t, reason=%s",
		therapistID, result.OK, result.Reason)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
